package appcore

import (
	"strconv"
	"strings"

	"market/internal/profiles"
)

type BackgroundIntensity string

const (
	BackgroundSubtle BackgroundIntensity = "subtle"
	BackgroundMedium BackgroundIntensity = "medium"
	BackgroundVivid  BackgroundIntensity = "vivid"
)

func ParseBackgroundIntensity(value string) BackgroundIntensity {
	switch BackgroundIntensity(strings.ToLower(strings.TrimSpace(value))) {
	case BackgroundSubtle:
		return BackgroundSubtle
	case BackgroundVivid:
		return BackgroundVivid
	default:
		return BackgroundMedium
	}
}

// LayoutView is implemented by every page view wrapped in the root layout.
type LayoutView interface {
	LayoutPageTitle() string
	LayoutBackground() BackgroundIntensity
}

type FormState struct {
	Values  map[string]string
	Errors  map[string]string
	Message string
}

func (f FormState) Value(name string) string {
	return f.Values[name]
}

func (f FormState) Error(name string) string {
	return f.Errors[name]
}

func (f FormState) HasErrors() bool {
	return len(f.Errors) > 0 || f.Message != ""
}

type PaginationView struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

func (p PaginationView) StatusText() string {
	return "page " + strconv.Itoa(p.Page) + " / " + strconv.Itoa(p.TotalPages)
}

type ProfileSetupView struct {
	PageTitle  string
	Background BackgroundIntensity
	Form       FormState
}

type ProfilePageView struct {
	PageTitle     string
	Background    BackgroundIntensity
	WalletAddress string
	Profile       profiles.Profile
	Listings      []profiles.Listing
	Pagination    PaginationView
	AddProductURL string
}

type AddProductView struct {
	PageTitle  string
	Background BackgroundIntensity
	Form       FormState
	Currencies []string
}

// StatusPageView backs the not-found and invalid-route pages.
type StatusPageView struct {
	PageTitle  string
	Background BackgroundIntensity
	Path       string
	Detail     string
}

func (v ProfileSetupView) LayoutPageTitle() string               { return v.PageTitle }
func (v ProfileSetupView) LayoutBackground() BackgroundIntensity { return v.Background }
func (v ProfilePageView) LayoutPageTitle() string                { return v.PageTitle }
func (v ProfilePageView) LayoutBackground() BackgroundIntensity  { return v.Background }
func (v AddProductView) LayoutPageTitle() string                 { return v.PageTitle }
func (v AddProductView) LayoutBackground() BackgroundIntensity   { return v.Background }
func (v StatusPageView) LayoutPageTitle() string                 { return v.PageTitle }
func (v StatusPageView) LayoutBackground() BackgroundIntensity   { return v.Background }

func NewNotFoundView(path string) StatusPageView {
	return StatusPageView{
		PageTitle:  "404 Not Found",
		Background: BackgroundSubtle,
		Path:       normalizeDisplayPath(path),
	}
}

func NewInvalidRouteView(path string, param string) StatusPageView {
	detail := "This address does not point to a page."
	if param != "" {
		detail = "The " + param + " in this link is missing or malformed."
	}

	return StatusPageView{
		PageTitle:  "Invalid link",
		Background: BackgroundSubtle,
		Path:       normalizeDisplayPath(path),
		Detail:     detail,
	}
}

func newPaginationView(wallet string, page int, totalPages int) PaginationView {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}

	view := PaginationView{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if view.HasPrev {
		view.PrevURL = BuildProfileURL(wallet, page-1)
	}
	if view.HasNext {
		view.NextURL = BuildProfileURL(wallet, page+1)
	}
	return view
}

func normalizeDisplayPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	return path
}
