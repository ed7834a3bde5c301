package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/starfederation/datastar-go/datastar"

	"market/framework"
	"market/framework/engine"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const defaultErrorCachePolicy = "no-store"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"
const defaultStaticPrefix = "/.market/"
const defaultMetricsPath = "/metrics"

// PartialRequestHeader marks requests issued by the Datastar client.
const PartialRequestHeader = "Datastar-Request"

type StaticMount struct {
	URLPrefix string
	Dir       string
}

type CachePolicies struct {
	HTML   string
	Static string
	Health string
	Error  string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:   defaultCacheControlPolicy,
		Static: defaultCacheControlPolicy,
		Health: defaultCacheControlPolicy,
		Error:  defaultErrorCachePolicy,
	}
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	Static StaticMount

	CachePolicies CachePolicies

	IsNotFoundError  func(err error) bool
	NotFoundPage     func(notFoundContext framework.NotFoundContext) templ.Component
	InvalidRoutePage func(invalid framework.InvalidRouteContext) templ.Component

	// LiveSelectorID is the element that receives not-found and
	// invalid-route pages on live navigation requests.
	LiveSelectorID string

	Logger  zerolog.Logger
	Metrics *Metrics

	HealthPath  string
	HealthBody  string
	MetricsPath string
}

type server[C interface{}] struct {
	cachePolicies    CachePolicies
	notFoundPage     func(notFoundContext framework.NotFoundContext) templ.Component
	invalidRoutePage func(invalid framework.InvalidRouteContext) templ.Component
	liveSelectorID   string
	logger           zerolog.Logger
	metrics          *Metrics
	healthPath       string
	healthBody       string

	routeEngine *engine.Engine[C]
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	cachePolicies := withDefaultPolicies(cfg.CachePolicies)
	healthPath := normalizePath(cfg.HealthPath, defaultHealthPath)
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}

	srv := &server[C]{
		cachePolicies:    cachePolicies,
		notFoundPage:     cfg.NotFoundPage,
		invalidRoutePage: cfg.InvalidRoutePage,
		liveSelectorID:   strings.TrimSpace(cfg.LiveSelectorID),
		logger:           cfg.Logger,
		metrics:          cfg.Metrics,
		healthPath:       healthPath,
		healthBody:       healthBody,
	}

	routeEngine, err := engine.New(engine.Config[C]{
		AppContext:          cfg.AppContext,
		Handlers:            cfg.Handlers,
		RenderPage:          srv.renderPage,
		PatchLive:           srv.patchLive,
		IsPartialRequest:    IsPartialRequest,
		IsNotFoundError:     cfg.IsNotFoundError,
		HandleNotFound:      srv.handleNotFound,
		HandleInvalidRoute:  srv.handleInvalidRoute,
		HandleServerError:   srv.handleServerError,
		ObserveRouteOutcome: cfg.Metrics.ObserveRoute,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routeEngine = routeEngine

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(srv.requestLogger)
	mux.Use(middleware.Recoverer)

	if strings.TrimSpace(cfg.Static.Dir) != "" {
		prefix := normalizeStaticPrefix(cfg.Static.URLPrefix)
		fs := http.FileServer(http.Dir(cfg.Static.Dir))
		mux.Handle(prefix+"*", withCachePolicy(cachePolicies.Static, http.StripPrefix(prefix, fs)))
	}
	if cfg.Metrics != nil {
		mux.Handle(normalizePath(cfg.MetricsPath, defaultMetricsPath), cfg.Metrics.Handler())
	}

	mux.HandleFunc("/*", srv.handleRoute)
	return mux, nil
}

// IsPartialRequest reports whether r came from client-side navigation and
// expects the page body without layouts.
func IsPartialRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(PartialRequestHeader)), "true")
}

func (s *server[C]) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.healthPath {
		s.handleHealth(w)
		return
	}

	w.Header().Add("Vary", PartialRequestHeader)
	if s.routeEngine.ServeRoute(w, r) {
		return
	}

	s.handleNotFound(w, r, framework.NotFoundContext{
		RequestPath: r.URL.Path,
		Source:      framework.NotFoundSourceUnmatchedRoute,
		Partial:     IsPartialRequest(r),
	})
}

func (s *server[C]) renderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return s.renderPageWithStatus(r, w, component, 0, s.cachePolicies.HTML)
}

func (s *server[C]) renderPageWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return component.Render(r.Context(), w)
}

func (s *server[C]) patchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(component, datastar.WithSelectorID(selectorID))
}

func (s *server[C]) handleNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	s.logger.Debug().
		Str("path", notFoundContext.RequestPath).
		Str("route", notFoundContext.MatchedRoutePattern).
		Str("source", string(notFoundContext.Source)).
		Msg("not found")

	if s.notFoundPage == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}

	component := s.notFoundPage(notFoundContext)
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}
	if notFoundContext.Partial && s.liveSelectorID != "" {
		s.patchStatusPage(w, r, component, "not found")
		return
	}
	if err := s.renderPageWithStatus(r, w, component, http.StatusNotFound, s.cachePolicies.Error); err != nil {
		s.handleServerError(w, fmt.Errorf("render not found page: %w", err))
	}
}

func (s *server[C]) handleInvalidRoute(
	w http.ResponseWriter,
	r *http.Request,
	invalid framework.InvalidRouteContext,
	fallback templ.Component,
) {
	s.logger.Info().
		Str("path", invalid.RequestPath).
		Str("route", invalid.MatchedRoutePattern).
		Str("param", invalid.Param).
		Str("reason", string(invalid.Reason)).
		Msg("invalid route parameter")

	component := fallback
	if component == nil && s.invalidRoutePage != nil {
		component = s.invalidRoutePage(invalid)
	}
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if invalid.Partial && s.liveSelectorID != "" {
		s.patchStatusPage(w, r, component, "invalid route")
		return
	}
	if err := s.renderPageWithStatus(r, w, component, http.StatusBadRequest, s.cachePolicies.Error); err != nil {
		s.handleServerError(w, fmt.Errorf("render invalid route page: %w", err))
	}
}

// patchStatusPage replaces the live content element with an error page. The
// SSE stream itself must succeed for the client to apply the patch.
func (s *server[C]) patchStatusPage(w http.ResponseWriter, r *http.Request, component templ.Component, page string) {
	if err := s.patchLive(w, r, s.liveSelectorID, component); err != nil {
		s.handleServerError(w, fmt.Errorf("patch %s page: %w", page, err))
	}
}

func (s *server[C]) handleServerError(w http.ResponseWriter, err error) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	s.logger.Error().Err(err).Msg("server error")
}

func (s *server[C]) handleHealth(w http.ResponseWriter) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func (s *server[C]) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.observeResponse(r.Method, status)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(started)).
			Msg("request")
	})
}

func normalizeStaticPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return defaultStaticPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func normalizePath(path string, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.HTML) == "" {
		policies.HTML = defaults.HTML
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
