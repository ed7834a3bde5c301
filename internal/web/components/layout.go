package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"market/internal/markdown"
	"market/internal/web/appcore"
)

const (
	siteName       = "Market"
	PageContentID  = "page-content"
	staticBasePath = "/.market/"
)

var starCounts = map[appcore.BackgroundIntensity]int{
	appcore.BackgroundSubtle: 12,
	appcore.BackgroundMedium: 28,
	appcore.BackgroundVivid:  56,
}

// RootLayout wraps every full page. Live navigation only replaces the
// element with PageContentID.
func RootLayout(view appcore.LayoutView, child templ.Component) templ.Component {
	return render(func(ctx context.Context, h *htmlWriter) {
		title := siteName
		if view != nil && view.LayoutPageTitle() != "" {
			title = view.LayoutPageTitle() + " | " + siteName
		}
		background := appcore.BackgroundMedium
		if view != nil {
			background = view.LayoutBackground()
		}

		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", staticBasePath+"app.css")
		h.raw(`><style>`)
		h.raw(string(markdown.ChromaCSS()))
		h.raw(`</style><script type="module"`)
		h.attr("src", staticBasePath+"datastar.js")
		h.raw(`></script></head><body>`)
		h.child(ctx, CelestialBackground(background))
		h.raw(`<header class="site-header"><a href="/profile/setup">`)
		h.text(siteName)
		h.raw(`</a><nav><a href="/profile/setup">Profile</a><a href="/products/add">Sell</a></nav></header>`)
		h.raw(`<main`)
		h.attr("id", PageContentID)
		h.raw(`>`)
		h.child(ctx, child)
		h.raw(`</main></body></html>`)
	})
}

// CelestialBackground draws a decorative star field. Unknown intensities
// render as medium.
func CelestialBackground(intensity appcore.BackgroundIntensity) templ.Component {
	intensity = appcore.ParseBackgroundIntensity(string(intensity))

	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div`)
		h.attr("class", "celestial celestial-"+string(intensity))
		h.attr("data-intensity", string(intensity))
		h.raw(` aria-hidden="true">`)
		for i := 0; i < starCounts[intensity]; i++ {
			h.raw(`<span class="star" style="`)
			h.raw(starStyle(i))
			h.raw(`"></span>`)
		}
		h.raw(`</div>`)
	})
}

// starStyle spreads stars with fixed strides so the field is stable across
// renders.
func starStyle(i int) string {
	top := (i*37 + 11) % 100
	left := (i*61 + 7) % 100
	delay := (i * 13) % 40
	return "top:" + strconv.Itoa(top) + "%;left:" + strconv.Itoa(left) + "%;animation-delay:" + strconv.Itoa(delay) + "00ms"
}
