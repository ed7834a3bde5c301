package components

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"market/internal/profiles"
	"market/internal/web/appcore"
)

func ProfileSetup(view appcore.ProfileSetupView) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="panel profile-setup"><h1>Set up your profile</h1>`)
		formMessage(h, view.Form)
		h.raw(`<form method="post" action="/profile/setup">`)
		inputField(h, view.Form, "Wallet address", "wallet", "text", true)
		inputField(h, view.Form, "Display name", "display_name", "text", true)
		textareaField(h, view.Form, "Bio", "bio")
		inputField(h, view.Form, "Avatar URL", "avatar_url", "url", false)
		h.raw(`<button type="submit">Create profile</button></form></section>`)
	})
}

// ProfileView renders the profile owned by view.WalletAddress.
func ProfileView(view appcore.ProfilePageView) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		profile := view.Profile

		h.raw(`<section class="panel profile"`)
		h.attr("data-wallet", view.WalletAddress)
		h.raw(`><header class="profile-header">`)
		if profile.AvatarURL != "" {
			h.raw(`<img class="avatar"`)
			h.attr("src", safeHref(profile.AvatarURL))
			h.attr("alt", profile.DisplayName)
			h.raw(`>`)
		}
		h.raw(`<div><h1>`)
		h.text(profile.DisplayName)
		h.raw(`</h1><p class="wallet"><code>`)
		h.text(view.WalletAddress)
		h.raw(`</code></p>`)
		if profile.JoinedAt != "" {
			h.raw(`<p class="muted">Joined `)
			h.text(profile.JoinedAt)
			h.raw(`</p>`)
		}
		h.raw(`</div></header>`)
		if profile.BioHTML != "" {
			h.raw(`<div class="prose">`)
			h.raw(string(profile.BioHTML))
			h.raw(`</div>`)
		}
		h.raw(`<p><a class="button"`)
		h.attr("href", safeHref(view.AddProductURL))
		h.raw(`>List a product</a></p></section>`)

		h.raw(`<section class="listings"><h2>Listings</h2>`)
		if len(view.Listings) == 0 {
			h.raw(`<p class="muted">No listings yet.</p>`)
		}
		for _, listing := range view.Listings {
			listingCard(h, listing)
		}
		pager(h, view.Pagination)
		h.raw(`</section>`)
	})
}

func AddProductView(view appcore.AddProductView) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="panel add-product"><h1>Add a product</h1>`)
		formMessage(h, view.Form)
		h.raw(`<form method="post" action="/products/add">`)
		inputField(h, view.Form, "Seller wallet", "seller", "text", true)
		inputField(h, view.Form, "Title", "title", "text", true)
		textareaField(h, view.Form, "Description", "description")
		inputField(h, view.Form, "Price", "price", "text", true)

		h.raw(`<label>Currency<select name="currency">`)
		for _, currency := range view.Currencies {
			h.raw(`<option`)
			h.attr("value", currency)
			if currency == view.Form.Value("currency") {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(currency)
			h.raw(`</option>`)
		}
		h.raw(`</select></label>`)
		fieldError(h, view.Form, "currency")

		inputField(h, view.Form, "Image URL", "image_url", "url", false)
		h.raw(`<button type="submit">Publish listing</button></form></section>`)
	})
}

func NotFound(view appcore.StatusPageView) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="panel status-page"><h1>Page not found</h1><p>Nothing lives at <code>`)
		h.text(view.Path)
		h.raw(`</code>.</p><p><a href="/profile/setup">Create a profile</a></p></section>`)
	})
}

// InvalidRoute is rendered instead of the page when a route parameter
// cannot be resolved.
func InvalidRoute(view appcore.StatusPageView) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="panel status-page invalid-route"><h1>Invalid link</h1><p>`)
		h.text(view.Detail)
		h.raw(`</p><p class="muted"><code>`)
		h.text(view.Path)
		h.raw(`</code></p><p><a href="/profile/setup">Set up a profile</a></p></section>`)
	})
}

func listingCard(h *htmlWriter, listing profiles.Listing) {
	h.raw(`<article class="panel listing-card"`)
	h.attr("id", "listing-"+listing.ID)
	h.raw(`>`)
	if listing.ImageURL != "" {
		h.raw(`<img`)
		h.attr("src", safeHref(listing.ImageURL))
		h.attr("alt", listing.Title)
		h.raw(` loading="lazy">`)
	}
	h.raw(`<h3>`)
	h.text(listing.Title)
	h.raw(`</h3><p class="price">`)
	h.text(listing.Price + " " + listing.Currency)
	h.raw(`</p>`)
	if listing.Excerpt != "" {
		h.raw(`<p>`)
		h.text(listing.Excerpt)
		h.raw(`</p>`)
	}
	if listing.ListedAt != "" {
		h.raw(`<p class="muted">Listed `)
		h.text(listing.ListedAt)
		h.raw(`</p>`)
	}
	h.raw(`</article>`)
}

func pager(h *htmlWriter, p appcore.PaginationView) {
	if !p.HasPrev && !p.HasNext {
		return
	}

	h.raw(`<nav class="pager">`)
	if p.HasPrev {
		liveLink(h, p.PrevURL, "Previous")
	}
	h.raw(`<span>`)
	h.text(p.StatusText())
	h.raw(`</span>`)
	if p.HasNext {
		liveLink(h, p.NextURL, "Next")
	}
	h.raw(`</nav>`)
}

// liveLink works as a plain link and upgrades to a partial patch of the
// page content when the datastar client is loaded.
func liveLink(h *htmlWriter, href string, label string) {
	h.raw(`<a`)
	h.attr("href", safeHref(href))
	h.attr("data-on:click__prevent", "@get("+strconv.Quote(href)+")")
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func formMessage(h *htmlWriter, form appcore.FormState) {
	if form.Message == "" {
		return
	}
	h.raw(`<p class="form-message" role="alert">`)
	h.text(form.Message)
	h.raw(`</p>`)
}

func inputField(h *htmlWriter, form appcore.FormState, label string, name string, inputType string, required bool) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input`)
	h.attr("type", inputType)
	h.attr("name", name)
	h.attr("value", form.Value(name))
	if required {
		h.raw(` required`)
	}
	if form.Error(name) != "" {
		h.raw(` aria-invalid="true"`)
	}
	h.raw(`></label>`)
	fieldError(h, form, name)
}

func textareaField(h *htmlWriter, form appcore.FormState, label string, name string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<textarea`)
	h.attr("name", name)
	h.raw(` rows="5">`)
	h.text(form.Value(name))
	h.raw(`</textarea></label>`)
	fieldError(h, form, name)
}

func fieldError(h *htmlWriter, form appcore.FormState, name string) {
	message := form.Error(name)
	if message == "" {
		return
	}
	h.raw(`<p class="field-error"`)
	h.attr("data-field", name)
	h.raw(`>`)
	h.text(message)
	h.raw(`</p>`)
}
