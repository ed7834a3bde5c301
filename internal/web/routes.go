package web

import (
	"fmt"

	"github.com/a-h/templ"

	"market/framework"
	"market/framework/router"
	"market/internal/web/appcore"
	"market/internal/web/components"
)

// Routes is the page registry of the market site.
type Routes struct {
	router   *router.Router
	handlers []framework.RouteHandler[*appcore.Context]
}

func NewRoutes() (*Routes, error) {
	appRouter, err := router.New(
		appcore.RouteProfileSetup,
		appcore.RouteProfileView,
		appcore.RouteAddProduct,
	)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	matchers := make(map[string]framework.RouteMatcher, 3)
	for _, pattern := range []string{appcore.RouteProfileSetup, appcore.RouteProfileView, appcore.RouteAddProduct} {
		matcher, err := appRouter.Matcher(pattern)
		if err != nil {
			return nil, err
		}
		matchers[pattern] = matcher
	}

	rootLayout := func(view appcore.LayoutView, child templ.Component) templ.Component {
		return components.RootLayout(view, child)
	}

	handlers := []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.ProfileSetupView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.ProfileSetupView]{
				Pattern: appcore.RouteProfileSetup,
				Match:   matchers[appcore.RouteProfileSetup],
				Resolve: framework.ResolveEmptyParams,
				Load:    appcore.LoadProfileSetupPage,
				Submit:  appcore.SubmitProfileSetup,
				Render:  components.ProfileSetup,
				Layouts: []framework.LayoutRenderer[appcore.ProfileSetupView]{
					func(view appcore.ProfileSetupView, child templ.Component) templ.Component {
						return rootLayout(view, child)
					},
				},
				LiveSelectorID: components.PageContentID,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, appcore.ProfileParams, appcore.ProfilePageView]{
			Page: framework.PageModule[*appcore.Context, appcore.ProfileParams, appcore.ProfilePageView]{
				Pattern: appcore.RouteProfileView,
				Match:   matchers[appcore.RouteProfileView],
				Resolve: appcore.ResolveProfileParams,
				Load:    appcore.LoadProfilePage,
				Render:  components.ProfileView,
				Layouts: []framework.LayoutRenderer[appcore.ProfilePageView]{
					func(view appcore.ProfilePageView, child templ.Component) templ.Component {
						return rootLayout(view, child)
					},
				},
				Fallback:       InvalidRoutePage,
				LiveSelectorID: components.PageContentID,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.AddProductView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.AddProductView]{
				Pattern: appcore.RouteAddProduct,
				Match:   matchers[appcore.RouteAddProduct],
				Resolve: framework.ResolveEmptyParams,
				Load:    appcore.LoadAddProductPage,
				Submit:  appcore.SubmitAddProduct,
				Render:  components.AddProductView,
				Layouts: []framework.LayoutRenderer[appcore.AddProductView]{
					func(view appcore.AddProductView, child templ.Component) templ.Component {
						return rootLayout(view, child)
					},
				},
				LiveSelectorID: components.PageContentID,
			},
		},
	}

	return &Routes{router: appRouter, handlers: handlers}, nil
}

func (r *Routes) Handlers() []framework.RouteHandler[*appcore.Context] {
	return r.handlers
}

// Navigate exposes the navigation state the registry would serve for path.
func (r *Routes) Navigate(path string) (framework.NavigationState, bool) {
	return r.router.Navigate(path)
}

// NotFoundPage renders the bare page body for live navigation and the full
// document otherwise. InvalidRoutePage does the same.
func NotFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	view := appcore.NewNotFoundView(notFoundContext.RequestPath)
	if notFoundContext.Partial {
		return components.NotFound(view)
	}
	return components.RootLayout(view, components.NotFound(view))
}

func InvalidRoutePage(invalid framework.InvalidRouteContext) templ.Component {
	view := appcore.NewInvalidRouteView(invalid.RequestPath, invalid.Param)
	if invalid.Partial {
		return components.InvalidRoute(view)
	}
	return components.RootLayout(view, components.InvalidRoute(view))
}
