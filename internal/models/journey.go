package models

import "time"

type Amount struct {
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted,omitempty"`
}

type Journey struct {
	Provider    string    `json:"provider,omitempty"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	Price       Amount    `json:"price"`
}

func (j Journey) Duration() time.Duration {
	return j.Arrival.Sub(j.Departure)
}
