package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3000/api/graphql", cfg.GraphQLEndpoint)
	assert.Equal(t, 12, cfg.ListingsPageSize)
	assert.Equal(t, "medium", cfg.BackgroundIntensity)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.GraphQLTimeout)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"MARKET_LISTEN_ADDR":        ":9090",
		"MARKET_ROOT_URL":           " https://market.example/ ",
		"MARKET_LISTINGS_PAGE_SIZE": "0",
		"MARKET_LOG_FORMAT":         "console",
		"MARKET_GRAPHQL_TIMEOUT":    "2500ms",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "https://market.example", cfg.RootURL)
	assert.Equal(t, 12, cfg.ListingsPageSize)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 2500*time.Millisecond, cfg.GraphQLTimeout)
}

func TestLoadFromFallsBackOnNonPositiveTimeout(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"MARKET_GRAPHQL_TIMEOUT": "0s"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGraphQLTimeout, cfg.GraphQLTimeout)

	_, err = LoadFrom(map[string]string{"MARKET_GRAPHQL_TIMEOUT": "soon"})
	require.Error(t, err)
}

func TestLoadFromRejectsMalformedInt(t *testing.T) {
	_, err := LoadFrom(map[string]string{"MARKET_LISTINGS_PAGE_SIZE": "many"})
	require.Error(t, err)
}
