package engine

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"market/framework"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage       func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive        func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	IsPartialRequest func(r *http.Request) bool

	IsNotFoundError     func(err error) bool
	HandleNotFound      func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleInvalidRoute  func(w http.ResponseWriter, r *http.Request, invalid framework.InvalidRouteContext, fallback templ.Component)
	HandleServerError   func(w http.ResponseWriter, err error)
	ObserveRouteOutcome func(routePattern string, outcome framework.RouteOutcome)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]

	renderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	patchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	isPartial  func(r *http.Request) bool

	isNotFound   func(err error) bool
	notFound     func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	invalidRoute func(w http.ResponseWriter, r *http.Request, invalid framework.InvalidRouteContext, fallback templ.Component)
	serverError  func(w http.ResponseWriter, err error)
	observe      func(routePattern string, outcome framework.RouteOutcome)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	patchLive := cfg.PatchLive
	if patchLive == nil {
		patchLive = func(w http.ResponseWriter, r *http.Request, _ string, component templ.Component) error {
			return cfg.RenderPage(r, w, component)
		}
	}

	isPartial := cfg.IsPartialRequest
	if isPartial == nil {
		isPartial = func(*http.Request) bool { return false }
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	invalidRoute := cfg.HandleInvalidRoute
	if invalidRoute == nil {
		invalidRoute = func(w http.ResponseWriter, _ *http.Request, invalid framework.InvalidRouteContext, _ templ.Component) {
			http.Error(w, invalid.Err.Error(), http.StatusBadRequest)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	observe := cfg.ObserveRouteOutcome
	if observe == nil {
		observe = func(string, framework.RouteOutcome) {}
	}

	return &Engine[C]{
		appContext:   cfg.AppContext,
		handlers:     cfg.Handlers,
		renderPage:   cfg.RenderPage,
		patchLive:    patchLive,
		isPartial:    isPartial,
		isNotFound:   isNotFound,
		notFound:     notFound,
		invalidRoute: invalidRoute,
		serverError:  serverError,
		observe:      observe,
	}, nil
}

func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	for _, handler := range engine.handlers {
		if handler.TryServe(engine, w, r) {
			return true
		}
	}

	return false
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) IsPartialRequest(r *http.Request) bool {
	return engine.isPartial(r)
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.patchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondInvalidRoute(
	w http.ResponseWriter,
	r *http.Request,
	invalid framework.InvalidRouteContext,
	fallback templ.Component,
) {
	engine.invalidRoute(w, r, invalid, fallback)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, err error) {
	engine.serverError(w, err)
}

func (engine *Engine[C]) ObserveRoute(routePattern string, outcome framework.RouteOutcome) {
	engine.observe(routePattern, outcome)
}
