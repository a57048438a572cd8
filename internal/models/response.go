package models

type SearchStatus string

const (
	SearchIdle    SearchStatus = "idle"
	SearchResults SearchStatus = "results"
	SearchError   SearchStatus = "error"
)

type SearchMetadata struct {
	TotalResults       int      `json:"total_results"`
	ProvidersQueried   int      `json:"providers_queried"`
	ProvidersSucceeded int      `json:"providers_succeeded"`
	ProvidersFailed    int      `json:"providers_failed"`
	FailedProviders    []string `json:"failed_providers,omitempty"`
	ThrottledProviders []string `json:"throttled_providers,omitempty"`
	SearchTimeMs       int64    `json:"search_time_ms"`
	CacheHit           bool     `json:"cache_hit"`
}

type SearchCriteria struct {
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	NrOfPassengers int    `json:"nr_of_passengers"`
	SortBy         string `json:"sort_by,omitempty"`
	SortOrder      string `json:"sort_order,omitempty"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Journeys       []Journey      `json:"journeys"`
}

type FormView struct {
	Phase  string       `json:"phase"`
	Raw    RawFormState `json:"raw"`
	Errors FieldErrors  `json:"errors"`
	Valid  bool         `json:"valid"`
	Query  string       `json:"query"`
}

type SearchOutcome struct {
	Status   SearchStatus `json:"status"`
	Journeys []Journey    `json:"journeys,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// PageResponse is what a deep link renders: the restored form plus the
// outcome of the auto-submitted search, if any.
type PageResponse struct {
	Form   FormView      `json:"form"`
	Search SearchOutcome `json:"search"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Code    int          `json:"code"`
	Fields  *FieldErrors `json:"fields,omitempty"`
}
