package appcore

import (
	"net/url"
	"strconv"

	"market/framework"
)

const (
	RouteProfileSetup = "/profile/setup"
	RouteProfileView  = "/profile/[address]"
	RouteAddProduct   = "/products/add"

	addressParam = "address"
)

// ProfileParams is the view request for the profile page.
type ProfileParams struct {
	WalletAddress string
}

// ResolveProfileParams narrows the captured route parameters to the wallet
// address. The address is passed through verbatim; a missing, empty or
// multi-valued address is an InvalidRouteParameter.
func ResolveProfileParams(raw framework.RawParams) (ProfileParams, error) {
	address, err := framework.RequireScalar(raw, addressParam)
	if err != nil {
		return ProfileParams{}, err
	}

	return ProfileParams{WalletAddress: address}, nil
}

func BuildProfileURL(wallet string, page int) string {
	target := "/profile/" + url.PathEscape(wallet)
	if page <= 1 {
		return target
	}

	q := make(url.Values)
	q.Set("page", strconv.Itoa(page))
	return target + "?" + q.Encode()
}

func BuildProfileSetupURL() string {
	return RouteProfileSetup
}

// BuildAddProductURL links to the listing form, prefilling the seller when
// known.
func BuildAddProductURL(seller string) string {
	if seller == "" {
		return RouteAddProduct
	}

	q := make(url.Values)
	q.Set("seller", seller)
	return RouteAddProduct + "?" + q.Encode()
}
