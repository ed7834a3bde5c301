package framework

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

type EmptyParams struct{}

type RouteMatcher func(path string) (RawParams, bool)

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

// PageAction handles a form submission. A non-empty redirect ends the
// request with 303 See Other; otherwise the returned view is rendered.
type PageAction[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (view VM, redirect string, err error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type FallbackRenderer func(invalid InvalidRouteContext) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern  string
	Match    RouteMatcher
	Resolve  ParamsResolver[P]
	Load     PageLoader[C, P, VM]
	Submit   PageAction[C, P, VM]
	Render   PageRenderer[VM]
	Layouts  []LayoutRenderer[VM]
	Fallback FallbackRenderer

	// LiveSelectorID is the element patched for live navigation requests.
	LiveSelectorID string
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	IsPartialRequest(r *http.Request) bool
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondInvalidRoute(w http.ResponseWriter, r *http.Request, invalid InvalidRouteContext, fallback templ.Component)
	RespondServerError(w http.ResponseWriter, err error)
	ObserveRoute(routePattern string, outcome RouteOutcome)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
	// Partial is set for live navigation requests; the page must be
	// rendered without layouts.
	Partial bool
}

type InvalidRouteContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Param               string
	Reason              ParamReason
	Err                 error
	Partial             bool
}

type RouteOutcome string

const (
	RouteOutcomeOK           RouteOutcome = "ok"
	RouteOutcomeInvalidParam RouteOutcome = "invalid_param"
	RouteOutcomeNotFound     RouteOutcome = "not_found"
	RouteOutcomeRedirect     RouteOutcome = "redirect"
	RouteOutcomeError        RouteOutcome = "error"
)

type RouteHandler[C interface{}] interface {
	TryServe(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	if module.Match == nil || module.Resolve == nil {
		return false
	}

	raw, ok := module.Match(r.URL.Path)
	if !ok {
		return false
	}

	params, err := module.Resolve(raw)
	if err != nil {
		handleResolveError(runtime, w, r, err, module.Pattern, module.Fallback)
		return true
	}

	var view VM
	switch {
	case r.Method == http.MethodPost && module.Submit != nil:
		var redirect string
		view, redirect, err = module.Submit(r.Context(), runtime.AppContext(), r, params)
		if err != nil {
			handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
			return true
		}
		if redirect != "" {
			runtime.ObserveRoute(module.Pattern, RouteOutcomeRedirect)
			http.Redirect(w, r, redirect, http.StatusSeeOther)
			return true
		}
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		view, err = module.Load(r.Context(), runtime.AppContext(), r, params)
		if err != nil {
			handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
			return true
		}
	default:
		w.Header().Set("Allow", allowedMethods(module.Submit != nil))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return true
	}

	component := module.Render(view)
	if runtime.IsPartialRequest(r) && module.LiveSelectorID != "" {
		if err := runtime.PatchLive(w, r, module.LiveSelectorID, component); err != nil {
			runtime.ObserveRoute(module.Pattern, RouteOutcomeError)
			runtime.RespondServerError(w, fmt.Errorf("patch route %q: %w", module.Pattern, err))
			return true
		}
		runtime.ObserveRoute(module.Pattern, RouteOutcomeOK)
		return true
	}

	if !runtime.IsPartialRequest(r) {
		component = applyLayouts(module.Layouts, view, component)
	}
	if err := runtime.RenderPage(r, w, component); err != nil {
		runtime.ObserveRoute(module.Pattern, RouteOutcomeError)
		runtime.RespondServerError(w, fmt.Errorf("render route %q: %w", module.Pattern, err))
		return true
	}
	runtime.ObserveRoute(module.Pattern, RouteOutcomeOK)
	return true
}

func handleResolveError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	fallback FallbackRenderer,
) {
	if !IsInvalidRouteParameter(err) {
		runtime.ObserveRoute(routePattern, RouteOutcomeError)
		runtime.RespondServerError(w, fmt.Errorf("resolve route %q: %w", routePattern, err))
		return
	}

	invalid := InvalidRouteContext{
		RequestPath:         r.URL.Path,
		MatchedRoutePattern: routePattern,
		Err:                 err,
		Partial:             runtime.IsPartialRequest(r),
	}
	var paramErr *InvalidRouteParameterError
	if errors.As(err, &paramErr) {
		invalid.Param = paramErr.Param
		invalid.Reason = paramErr.Reason
	}

	var component templ.Component
	if fallback != nil {
		component = fallback(invalid)
	}
	runtime.ObserveRoute(routePattern, RouteOutcomeInvalidParam)
	runtime.RespondInvalidRoute(w, r, invalid, component)
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	source NotFoundSource,
) {
	if runtime.IsNotFound(err) {
		runtime.ObserveRoute(routePattern, RouteOutcomeNotFound)
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
			Partial:             runtime.IsPartialRequest(r),
		})
		return
	}

	runtime.ObserveRoute(routePattern, RouteOutcomeError)
	runtime.RespondServerError(w, fmt.Errorf("load route %q: %w", routePattern, err))
}

func allowedMethods(hasSubmit bool) string {
	if hasSubmit {
		return "GET, HEAD, POST"
	}
	return "GET, HEAD"
}
