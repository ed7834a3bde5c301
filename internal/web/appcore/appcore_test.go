package appcore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market/framework"
	"market/framework/engine"
	"market/framework/router"
	"market/internal/profiles"
)

type fakeProfileService struct {
	calls    int
	page     profiles.ProfilePage
	pageErr  error
	wallets  []string
	pages    []int
	profile  profiles.Profile
	draftErr error
	drafts   []profiles.ProfileDraft
	listings []profiles.ListingDraft
}

func (s *fakeProfileService) GetProfilePage(_ context.Context, wallet string, page int) (profiles.ProfilePage, error) {
	s.calls++
	s.wallets = append(s.wallets, wallet)
	s.pages = append(s.pages, page)
	return s.page, s.pageErr
}

func (s *fakeProfileService) CreateProfile(_ context.Context, draft profiles.ProfileDraft) (profiles.Profile, error) {
	s.calls++
	s.drafts = append(s.drafts, draft)
	if s.draftErr != nil {
		return profiles.Profile{}, s.draftErr
	}
	profile := s.profile
	if profile.Wallet == "" {
		profile.Wallet = draft.Wallet
	}
	return profile, nil
}

func (s *fakeProfileService) CreateListing(_ context.Context, draft profiles.ListingDraft) (profiles.Listing, error) {
	s.calls++
	s.listings = append(s.listings, draft)
	if s.draftErr != nil {
		return profiles.Listing{}, s.draftErr
	}
	return profiles.Listing{ID: "l1", Title: draft.Title}, nil
}

func TestResolveProfileParamsPassesAddressThrough(t *testing.T) {
	for _, address := range []string{"0xABC123", "0xabc123", " padded ", "ens.eth", "%"} {
		params, err := ResolveProfileParams(framework.RawParams{"address": framework.ScalarParam(address)})
		require.NoError(t, err, address)
		assert.Equal(t, address, params.WalletAddress)
	}
}

func TestResolveProfileParamsRejectsInvalidAddress(t *testing.T) {
	tests := []struct {
		name   string
		raw    framework.RawParams
		reason framework.ParamReason
	}{
		{name: "missing", raw: framework.RawParams{}, reason: framework.ParamReasonMissing},
		{name: "nil", raw: nil, reason: framework.ParamReasonMissing},
		{name: "empty segment", raw: framework.RawParams{"address": framework.ScalarParam("")}, reason: framework.ParamReasonEmpty},
		{name: "array", raw: framework.RawParams{"address": framework.MultiParam("0xA", "0xB")}, reason: framework.ParamReasonNotScalar},
		{name: "single element array", raw: framework.RawParams{"address": framework.MultiParam("0xA")}, reason: framework.ParamReasonNotScalar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, err := ResolveProfileParams(tc.raw)
			require.ErrorIs(t, err, framework.ErrInvalidRouteParameter)
			assert.Equal(t, ProfileParams{}, params)

			var paramErr *framework.InvalidRouteParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, "address", paramErr.Param)
			assert.Equal(t, tc.reason, paramErr.Reason)
		})
	}
}

func TestResolveProfileParamsIsIdempotent(t *testing.T) {
	raw := framework.RawParams{"address": framework.ScalarParam("0xABC123")}

	first, err := ResolveProfileParams(raw)
	require.NoError(t, err)
	second, err := ResolveProfileParams(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	value, _ := raw["address"].Scalar()
	assert.Equal(t, "0xABC123", value)
}

func TestInvalidProfileAddressNeverReachesService(t *testing.T) {
	service := &fakeProfileService{page: profiles.ProfilePage{Profile: profiles.Profile{DisplayName: "Nova"}}}
	loads := 0

	routeEngine, err := engine.New(engine.Config[*Context]{
		AppContext: NewContext(service, BackgroundMedium),
		Handlers: []framework.RouteHandler[*Context]{
			framework.PageOnlyRouteHandler[*Context, ProfileParams, ProfilePageView]{
				Page: framework.PageModule[*Context, ProfileParams, ProfilePageView]{
					Pattern: RouteProfileView,
					Match: func(path string) (framework.RawParams, bool) {
						return router.MatchPathPattern(RouteProfileView, path)
					},
					Resolve: ResolveProfileParams,
					Load: func(ctx context.Context, appCtx *Context, r *http.Request, params ProfileParams) (ProfilePageView, error) {
						loads++
						return LoadProfilePage(ctx, appCtx, r, params)
					},
					Render: func(view ProfilePageView) templ.Component {
						return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
							_, err := io.WriteString(w, view.WalletAddress)
							return err
						})
					},
				},
			},
		},
		RenderPage: func(r *http.Request, w http.ResponseWriter, component templ.Component) error {
			return component.Render(r.Context(), w)
		},
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		require.True(t, routeEngine.ServeRoute(rec, httptest.NewRequest(http.MethodGet, "/profile/", nil)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Zero(t, loads)
	assert.Zero(t, service.calls)

	rec := httptest.NewRecorder()
	require.True(t, routeEngine.ServeRoute(rec, httptest.NewRequest(http.MethodGet, "/profile/0xABC123", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0xABC123", rec.Body.String())
	assert.Equal(t, 1, loads)
	assert.Equal(t, []string{"0xABC123"}, service.wallets)
}

func TestParseBackgroundIntensity(t *testing.T) {
	assert.Equal(t, BackgroundSubtle, ParseBackgroundIntensity("subtle"))
	assert.Equal(t, BackgroundVivid, ParseBackgroundIntensity(" VIVID "))
	assert.Equal(t, BackgroundMedium, ParseBackgroundIntensity("medium"))
	assert.Equal(t, BackgroundMedium, ParseBackgroundIntensity("blinding"))
	assert.Equal(t, BackgroundMedium, ParseBackgroundIntensity(""))
}

func TestBuildURLs(t *testing.T) {
	assert.Equal(t, "/profile/0xABC123", BuildProfileURL("0xABC123", 1))
	assert.Equal(t, "/profile/0xABC123?page=3", BuildProfileURL("0xABC123", 3))
	assert.Equal(t, "/profile/a%2Fb", BuildProfileURL("a/b", 0))
	assert.Equal(t, "/products/add", BuildAddProductURL(""))
	assert.Equal(t, "/products/add?seller=0xABC123", BuildAddProductURL("0xABC123"))
	assert.Equal(t, "/profile/setup", BuildProfileSetupURL())
}

func TestLoadProfilePage(t *testing.T) {
	service := &fakeProfileService{page: profiles.ProfilePage{
		Profile:    profiles.Profile{DisplayName: "Nova", Wallet: "0xABC123"},
		Listings:   []profiles.Listing{{ID: "l1", Title: "Star chart"}},
		Page:       2,
		TotalPages: 3,
	}}
	appCtx := NewContext(service, BackgroundVivid)

	r := httptest.NewRequest(http.MethodGet, "/profile/0xABC123?page=2", nil)
	view, err := LoadProfilePage(context.Background(), appCtx, r, ProfileParams{WalletAddress: "0xABC123"})
	require.NoError(t, err)

	assert.Equal(t, []string{"0xABC123"}, service.wallets)
	assert.Equal(t, []int{2}, service.pages)
	assert.Equal(t, "Nova", view.PageTitle)
	assert.Equal(t, BackgroundVivid, view.Background)
	assert.Equal(t, "0xABC123", view.WalletAddress)
	assert.Len(t, view.Listings, 1)
	assert.Equal(t, "/profile/0xABC123", view.Pagination.PrevURL)
	assert.Equal(t, "/profile/0xABC123?page=3", view.Pagination.NextURL)
	assert.Equal(t, "/products/add?seller=0xABC123", view.AddProductURL)
}

func TestLoadProfilePageNotFound(t *testing.T) {
	service := &fakeProfileService{pageErr: profiles.ErrNotFound}
	r := httptest.NewRequest(http.MethodGet, "/profile/0xmissing", nil)

	_, err := LoadProfilePage(context.Background(), NewContext(service, ""), r, ProfileParams{WalletAddress: "0xmissing"})
	assert.True(t, IsNotFoundError(err))
}

func TestLoadersRequireService(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/profile/0xABC123", nil)
	_, err := LoadProfilePage(context.Background(), nil, r, ProfileParams{WalletAddress: "0xABC123"})
	assert.ErrorIs(t, err, errProfileServiceUnavailable)
}

func TestSubmitProfileSetupRedirects(t *testing.T) {
	service := &fakeProfileService{}
	r := postForm(url.Values{"wallet": {" 0xABC123 "}, "display_name": {"Nova"}})

	_, redirect, err := SubmitProfileSetup(context.Background(), NewContext(service, ""), r, framework.EmptyParams{})
	require.NoError(t, err)
	assert.Equal(t, "/profile/0xABC123", redirect)
	require.Len(t, service.drafts, 1)
	assert.Equal(t, "Nova", service.drafts[0].DisplayName)
}

func TestSubmitProfileSetupRerendersValidationErrors(t *testing.T) {
	service := &fakeProfileService{draftErr: &profiles.ValidationError{Fields: map[string]string{"display_name": "is required"}}}
	r := postForm(url.Values{"wallet": {"0xABC123"}})

	view, redirect, err := SubmitProfileSetup(context.Background(), NewContext(service, "vivid"), r, framework.EmptyParams{})
	require.NoError(t, err)
	assert.Empty(t, redirect)
	assert.Equal(t, BackgroundVivid, view.Background)
	assert.Equal(t, "0xABC123", view.Form.Value("wallet"))
	assert.Equal(t, "is required", view.Form.Error("display_name"))
	assert.True(t, view.Form.HasErrors())
}

func TestLoadAddProductPagePrefillsSeller(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products/add?seller=0xABC123", nil)

	view, err := LoadAddProductPage(context.Background(), NewContext(nil, ""), r, framework.EmptyParams{})
	require.NoError(t, err)
	assert.Equal(t, "0xABC123", view.Form.Value("seller"))
	assert.Equal(t, profiles.SupportedCurrencies, view.Currencies)
	assert.False(t, view.Form.HasErrors())
}

func TestSubmitAddProduct(t *testing.T) {
	service := &fakeProfileService{}
	r := postForm(url.Values{
		"seller":   {"0xABC123"},
		"title":    {"Star chart"},
		"price":    {"0.5"},
		"currency": {"SOL"},
	})

	_, redirect, err := SubmitAddProduct(context.Background(), NewContext(service, ""), r, framework.EmptyParams{})
	require.NoError(t, err)
	assert.Equal(t, "/profile/0xABC123", redirect)
	require.Len(t, service.listings, 1)
	assert.Equal(t, "0.5", service.listings[0].Price)
}

func TestSubmitAddProductPropagatesBackendErrors(t *testing.T) {
	service := &fakeProfileService{draftErr: assert.AnError}
	r := postForm(url.Values{"seller": {"0xABC123"}})

	_, _, err := SubmitAddProduct(context.Background(), NewContext(service, ""), r, framework.EmptyParams{})
	assert.ErrorIs(t, err, assert.AnError)
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}
