package appcore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"market/framework"
	"market/internal/profiles"
)

const (
	formWallet      = "wallet"
	formDisplayName = "display_name"
	formBio         = "bio"
	formAvatarURL   = "avatar_url"
	formSeller      = "seller"
	formTitle       = "title"
	formDescription = "description"
	formPrice       = "price"
	formCurrency    = "currency"
	formImageURL    = "image_url"
)

func LoadProfileSetupPage(
	_ context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (ProfileSetupView, error) {
	return ProfileSetupView{
		PageTitle:  "Set up your profile",
		Background: appCtx.defaultBackground(),
		Form: FormState{Values: map[string]string{
			formWallet: strings.TrimSpace(r.URL.Query().Get(formWallet)),
		}},
	}, nil
}

func SubmitProfileSetup(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (ProfileSetupView, string, error) {
	service, err := profileService(appCtx)
	if err != nil {
		return ProfileSetupView{}, "", err
	}
	if err := r.ParseForm(); err != nil {
		return ProfileSetupView{}, "", fmt.Errorf("parse profile form: %w", err)
	}

	values := formValues(r, formWallet, formDisplayName, formBio, formAvatarURL)
	profile, err := service.CreateProfile(ctx, profiles.ProfileDraft{
		Wallet:      values[formWallet],
		DisplayName: values[formDisplayName],
		Bio:         values[formBio],
		AvatarURL:   values[formAvatarURL],
	})
	if err != nil {
		form, ok := formFromValidation(values, err)
		if !ok {
			return ProfileSetupView{}, "", err
		}
		return ProfileSetupView{
			PageTitle:  "Set up your profile",
			Background: appCtx.defaultBackground(),
			Form:       form,
		}, "", nil
	}

	return ProfileSetupView{}, BuildProfileURL(profile.Wallet, 1), nil
}

// LoadProfilePage renders the profile for the resolved wallet address.
func LoadProfilePage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params ProfileParams,
) (ProfilePageView, error) {
	service, err := profileService(appCtx)
	if err != nil {
		return ProfilePageView{}, err
	}

	result, err := service.GetProfilePage(ctx, params.WalletAddress, parsePage(r.URL.Query().Get("page")))
	if err != nil {
		return ProfilePageView{}, err
	}

	return ProfilePageView{
		PageTitle:     result.Profile.DisplayName,
		Background:    appCtx.defaultBackground(),
		WalletAddress: params.WalletAddress,
		Profile:       result.Profile,
		Listings:      result.Listings,
		Pagination:    newPaginationView(params.WalletAddress, result.Page, result.TotalPages),
		AddProductURL: BuildAddProductURL(params.WalletAddress),
	}, nil
}

func LoadAddProductPage(
	_ context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (AddProductView, error) {
	return newAddProductView(appCtx, FormState{Values: map[string]string{
		formSeller:   strings.TrimSpace(r.URL.Query().Get(formSeller)),
		formCurrency: profiles.SupportedCurrencies[0],
	}}), nil
}

func SubmitAddProduct(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (AddProductView, string, error) {
	service, err := profileService(appCtx)
	if err != nil {
		return AddProductView{}, "", err
	}
	if err := r.ParseForm(); err != nil {
		return AddProductView{}, "", fmt.Errorf("parse listing form: %w", err)
	}

	values := formValues(r, formSeller, formTitle, formDescription, formPrice, formCurrency, formImageURL)
	_, err = service.CreateListing(ctx, profiles.ListingDraft{
		Seller:      values[formSeller],
		Title:       values[formTitle],
		Description: values[formDescription],
		Price:       values[formPrice],
		Currency:    values[formCurrency],
		ImageURL:    values[formImageURL],
	})
	if err != nil {
		form, ok := formFromValidation(values, err)
		if !ok {
			return AddProductView{}, "", err
		}
		return newAddProductView(appCtx, form), "", nil
	}

	return AddProductView{}, BuildProfileURL(values[formSeller], 1), nil
}

func newAddProductView(appCtx *Context, form FormState) AddProductView {
	currencies := make([]string, len(profiles.SupportedCurrencies))
	copy(currencies, profiles.SupportedCurrencies)

	return AddProductView{
		PageTitle:  "Add a product",
		Background: appCtx.defaultBackground(),
		Form:       form,
		Currencies: currencies,
	}
}

func formValues(r *http.Request, names ...string) map[string]string {
	values := make(map[string]string, len(names))
	for _, name := range names {
		values[name] = strings.TrimSpace(r.PostForm.Get(name))
	}
	return values
}

func formFromValidation(values map[string]string, err error) (FormState, bool) {
	validationErr, ok := profiles.AsValidationError(err)
	if !ok {
		return FormState{}, false
	}

	return FormState{
		Values:  values,
		Errors:  validationErr.Fields,
		Message: "Please fix the highlighted fields.",
	}, true
}

func parsePage(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 1
	}
	return parsed
}
