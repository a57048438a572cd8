package config

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/journeysearch/internal/timezone"
)

type Config struct {
	Port            string
	CacheEnabled    bool
	RedisHost       string
	RedisPort       string
	RedisTTL        time.Duration
	Timezone        string
	SearchTimeout   time.Duration
	LogFormat       string
	Debug           bool
	ProvidersConfig string
}

// Flags are shared by every command. Each one can also be set through the
// environment variable named after it.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Value:   "8080",
			Usage:   "port the web server listens on",
			EnvVars: []string{"PORT"},
		},
		&cli.BoolFlag{
			Name:    "cache",
			Value:   true,
			Usage:   "cache journey search results in redis",
			EnvVars: []string{"CACHE_ENABLED"},
		},
		&cli.StringFlag{
			Name:    "redis-host",
			Value:   "localhost",
			EnvVars: []string{"REDIS_HOST"},
		},
		&cli.StringFlag{
			Name:    "redis-port",
			Value:   "6379",
			EnvVars: []string{"REDIS_PORT"},
		},
		&cli.DurationFlag{
			Name:    "redis-ttl",
			Value:   5 * time.Minute,
			Usage:   "lifetime of cached search results",
			EnvVars: []string{"REDIS_TTL"},
		},
		&cli.StringFlag{
			Name:    "timezone",
			Value:   timezone.DefaultZone,
			Usage:   "zone in which travel dates and \"today\" are interpreted",
			EnvVars: []string{"TIMEZONE"},
		},
		&cli.DurationFlag{
			Name:    "search-timeout",
			Value:   5 * time.Second,
			Usage:   "upper bound for one journey search across all providers",
			EnvVars: []string{"SEARCH_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "console",
			Usage:   "console or json",
			EnvVars: []string{"LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:    "debug",
			EnvVars: []string{"DEBUG"},
		},
		&cli.StringFlag{
			Name:    "providers-config",
			Usage:   "YAML file with per-provider rate limits and latency",
			EnvVars: []string{"PROVIDERS_CONFIG"},
		},
	}
}

func FromCLI(c *cli.Context) Config {
	return Config{
		Port:            c.String("port"),
		CacheEnabled:    c.Bool("cache"),
		RedisHost:       c.String("redis-host"),
		RedisPort:       c.String("redis-port"),
		RedisTTL:        c.Duration("redis-ttl"),
		Timezone:        c.String("timezone"),
		SearchTimeout:   c.Duration("search-timeout"),
		LogFormat:       c.String("log-format"),
		Debug:           c.Bool("debug"),
		ProvidersConfig: c.String("providers-config"),
	}
}

func (c Config) Location() (*time.Location, error) {
	return timezone.Load(c.Timezone)
}
