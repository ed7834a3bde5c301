package web

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"market/framework/httpserver"
	"market/internal/config"
	"market/internal/web/appcore"
	"market/internal/web/components"
)

const staticURLPrefix = "/.market/"

type HandlerOptions struct {
	Config  config.Config
	Service appcore.ProfileService
	Logger  zerolog.Logger
	Metrics *httpserver.Metrics
}

// NewHandler assembles the market site on top of the page framework.
func NewHandler(opts HandlerOptions) (http.Handler, error) {
	routes, err := NewRoutes()
	if err != nil {
		return nil, err
	}

	cachePolicies := httpserver.DefaultCachePolicies()
	if opts.Config.CacheHTML != "" {
		cachePolicies.HTML = opts.Config.CacheHTML
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appcore.NewContext(
			opts.Service,
			appcore.ParseBackgroundIntensity(opts.Config.BackgroundIntensity),
		),
		Handlers:         routes.Handlers(),
		IsNotFoundError:  appcore.IsNotFoundError,
		NotFoundPage:     NotFoundPage,
		InvalidRoutePage: InvalidRoutePage,
		Static: httpserver.StaticMount{
			URLPrefix: staticURLPrefix,
			Dir:       opts.Config.StaticDir,
		},
		CachePolicies:  cachePolicies,
		LiveSelectorID: components.PageContentID,
		Logger:         opts.Logger,
		Metrics:        opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create http handler: %w", err)
	}

	return handler, nil
}
