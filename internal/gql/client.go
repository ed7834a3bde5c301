package gql

import (
	"net/http"

	genqlientgraphql "github.com/Khan/genqlient/graphql"

	"market/internal/config"
)

const userAgent = "market-web"

// NewClient returns a genqlient client for the configured backend. Requests
// carry a bearer token when one is configured.
func NewClient(cfg config.Config) genqlientgraphql.Client {
	return genqlientgraphql.NewClient(cfg.GraphQLEndpoint, newHTTPClient(cfg, http.DefaultTransport))
}

func newHTTPClient(cfg config.Config, base http.RoundTripper) *http.Client {
	timeout := cfg.GraphQLTimeout
	if timeout <= 0 {
		timeout = config.DefaultGraphQLTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &backendTransport{
			base:  base,
			token: cfg.GraphQLAuthToken,
		},
	}
}

type backendTransport struct {
	base  http.RoundTripper
	token string
}

func (t *backendTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", userAgent)
	}
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(clone)
}
