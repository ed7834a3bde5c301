package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

type ProfileNode struct {
	ID          string `json:"id"`
	Wallet      string `json:"wallet"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
	CreatedAt   string `json:"createdAt"`
}

type ListingNode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"imageUrl"`
	CreatedAt   string  `json:"createdAt"`
}

type ProfileByWalletResponse struct {
	Profiles struct {
		Docs []ProfileNode `json:"docs"`
	} `json:"Profiles"`
}

type ListingsBySellerResponse struct {
	Listings struct {
		TotalPages int           `json:"totalPages"`
		Docs       []ListingNode `json:"docs"`
	} `json:"Listings"`
}

type ProfileInput struct {
	Wallet      string `json:"wallet"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type CreateProfileResponse struct {
	CreateProfile ProfileNode `json:"createProfile"`
}

type ListingInput struct {
	Seller      string  `json:"seller"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type CreateListingResponse struct {
	CreateListing ListingNode `json:"createListing"`
}

const profileByWalletOperation = `
query ProfileByWallet ($wallet: String!) {
	Profiles(where: {wallet: {equals: $wallet}}, limit: 1) {
		docs {
			id
			wallet
			displayName
			bio
			avatarUrl
			createdAt
		}
	}
}
`

const listingsBySellerOperation = `
query ListingsBySeller ($wallet: String!, $page: Int!, $limit: Int!) {
	Listings(where: {seller: {equals: $wallet}}, page: $page, limit: $limit, sort: "-createdAt") {
		totalPages
		docs {
			id
			title
			description
			price
			currency
			imageUrl
			createdAt
		}
	}
}
`

const createProfileOperation = `
mutation CreateProfile ($input: ProfileInput!) {
	createProfile(data: $input) {
		id
		wallet
		displayName
		bio
		avatarUrl
		createdAt
	}
}
`

const createListingOperation = `
mutation CreateListing ($input: ListingInput!) {
	createListing(data: $input) {
		id
		title
		description
		price
		currency
		imageUrl
		createdAt
	}
}
`

func ProfileByWallet(
	ctx context.Context,
	client genqlientgraphql.Client,
	wallet string,
) (*ProfileByWalletResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "ProfileByWallet",
		Query:  profileByWalletOperation,
		Variables: map[string]interface{}{
			"wallet": wallet,
		},
	}

	data := &ProfileByWalletResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func ListingsBySeller(
	ctx context.Context,
	client genqlientgraphql.Client,
	wallet string,
	page int,
	limit int,
) (*ListingsBySellerResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "ListingsBySeller",
		Query:  listingsBySellerOperation,
		Variables: map[string]interface{}{
			"wallet": wallet,
			"page":   page,
			"limit":  limit,
		},
	}

	data := &ListingsBySellerResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func CreateProfile(
	ctx context.Context,
	client genqlientgraphql.Client,
	input ProfileInput,
) (*CreateProfileResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "CreateProfile",
		Query:  createProfileOperation,
		Variables: map[string]interface{}{
			"input": input,
		},
	}

	data := &CreateProfileResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func CreateListing(
	ctx context.Context,
	client genqlientgraphql.Client,
	input ListingInput,
) (*CreateListingResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "CreateListing",
		Query:  createListingOperation,
		Variables: map[string]interface{}{
			"input": input,
		},
	}

	data := &CreateListingResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}
