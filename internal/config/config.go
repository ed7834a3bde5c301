package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const DefaultGraphQLTimeout = 15 * time.Second

type Config struct {
	ListenAddr string `env:"MARKET_LISTEN_ADDR" envDefault:":8080"`
	StaticDir  string `env:"MARKET_STATIC_DIR" envDefault:"internal/web/static"`

	RootURL string `env:"MARKET_ROOT_URL"`

	CacheHTML string `env:"MARKET_CACHE_HTML"`

	GraphQLEndpoint  string        `env:"MARKET_GRAPHQL_ENDPOINT" envDefault:"http://localhost:3000/api/graphql"`
	GraphQLAuthToken string        `env:"MARKET_GRAPHQL_AUTH_TOKEN"`
	GraphQLTimeout   time.Duration `env:"MARKET_GRAPHQL_TIMEOUT" envDefault:"15s"`

	ListingsPageSize int `env:"MARKET_LISTINGS_PAGE_SIZE" envDefault:"12"`

	BackgroundIntensity string `env:"MARKET_BACKGROUND_INTENSITY" envDefault:"medium"`

	LogLevel  string `env:"MARKET_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MARKET_LOG_FORMAT" envDefault:"json"`
}

func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses configuration from environment, or from the given map
// when it is non-nil.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.GraphQLTimeout <= 0 {
		cfg.GraphQLTimeout = DefaultGraphQLTimeout
	}
	if cfg.ListingsPageSize < 1 {
		cfg.ListingsPageSize = 12
	}
	cfg.RootURL = strings.TrimRight(strings.TrimSpace(cfg.RootURL), "/")
	cfg.CacheHTML = strings.TrimSpace(cfg.CacheHTML)

	return cfg, nil
}
