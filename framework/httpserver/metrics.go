package httpserver

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"market/framework"
)

const defaultMetricsNamespace = "market"

// Metrics counts route resolution outcomes and served responses.
type Metrics struct {
	routeOutcomes *prometheus.CounterVec
	responses     *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

// NewMetrics registers the server collectors on registry. A nil registry
// gets a private one so tests and multiple servers never collide.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	routeOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: defaultMetricsNamespace,
		Name:      "route_resolutions_total",
		Help:      "Route resolutions by matched pattern and outcome.",
	}, []string{"route", "outcome"})
	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: defaultMetricsNamespace,
		Name:      "http_responses_total",
		Help:      "HTTP responses by method and status code.",
	}, []string{"method", "code"})

	for _, collector := range []prometheus.Collector{routeOutcomes, responses} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return &Metrics{
		routeOutcomes: routeOutcomes,
		responses:     responses,
		gatherer:      registry,
	}, nil
}

func (m *Metrics) ObserveRoute(routePattern string, outcome framework.RouteOutcome) {
	if m == nil {
		return
	}
	m.routeOutcomes.WithLabelValues(routePattern, string(outcome)).Inc()
}

func (m *Metrics) observeResponse(method string, status int) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(methodLabel(method), strconv.Itoa(status)).Inc()
}

// methodLabel bounds the method label to the standard HTTP methods.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return method
	default:
		return "other"
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
