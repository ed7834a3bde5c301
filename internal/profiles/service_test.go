package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Khan/genqlient/graphql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	OpName    string
	Variables map[string]interface{}
}

type fakeGraphQLClient struct {
	responses map[string]string
	failOn    string
	requests  []recordedRequest
}

func (c *fakeGraphQLClient) MakeRequest(_ context.Context, req *graphql.Request, resp *graphql.Response) error {
	variables := map[string]interface{}{}
	raw, err := json.Marshal(req.Variables)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &variables); err != nil {
		return err
	}
	c.requests = append(c.requests, recordedRequest{OpName: req.OpName, Variables: variables})

	if req.OpName == c.failOn {
		return errors.New("backend unavailable")
	}
	payload, ok := c.responses[req.OpName]
	if !ok {
		return errors.New("unexpected operation " + req.OpName)
	}
	return json.Unmarshal([]byte(payload), resp.Data)
}

func newTestService(client *fakeGraphQLClient) *Service {
	return NewService(client, 2, "https://market.example", zerolog.Nop())
}

func TestGetProfilePage(t *testing.T) {
	client := &fakeGraphQLClient{responses: map[string]string{
		"ProfileByWallet": `{"Profiles":{"docs":[{
			"id":"p1","wallet":"0xABC123","displayName":"Nova",
			"bio":"Collector of **meteorites**","avatarUrl":"javascript:alert(1)",
			"createdAt":"2026-03-04T10:00:00.000Z"
		}]}}`,
		"ListingsBySeller": `{"Listings":{"totalPages":3,"docs":[{
			"id":"l1","title":"Iron meteorite","description":"## Rare\nFound in *Chile*",
			"price":1.25,"currency":"ETH","imageUrl":"https://cdn.example/l1.png",
			"createdAt":"2026-03-05T00:00:00Z"
		}]}}`,
	}}

	page, err := newTestService(client).GetProfilePage(context.Background(), "0xABC123", 0)
	require.NoError(t, err)

	assert.Equal(t, "Nova", page.Profile.DisplayName)
	assert.Equal(t, "0xABC123", page.Profile.Wallet)
	assert.Contains(t, string(page.Profile.BioHTML), "<strong>meteorites</strong>")
	assert.Empty(t, page.Profile.AvatarURL, "non-http avatar URLs must be dropped")
	assert.Equal(t, "2026-03-04", page.Profile.JoinedAt)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)

	require.Len(t, page.Listings, 1)
	listing := page.Listings[0]
	assert.Equal(t, "Iron meteorite", listing.Title)
	assert.Equal(t, "1.25", listing.Price)
	assert.Equal(t, "Rare Found in Chile", listing.Excerpt)
	assert.Equal(t, "https://cdn.example/l1.png", listing.ImageURL)

	require.Len(t, client.requests, 2)
	assert.Equal(t, "0xABC123", client.requests[0].Variables["wallet"])
	assert.Equal(t, float64(1), client.requests[1].Variables["page"])
	assert.Equal(t, float64(2), client.requests[1].Variables["limit"])
}

func TestGetProfilePageNotFound(t *testing.T) {
	client := &fakeGraphQLClient{responses: map[string]string{
		"ProfileByWallet": `{"Profiles":{"docs":[]}}`,
	}}

	_, err := newTestService(client).GetProfilePage(context.Background(), "0xmissing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, client.requests, 1, "listings must not be queried for a missing profile")
}

func TestGetProfilePageWrapsBackendErrors(t *testing.T) {
	client := &fakeGraphQLClient{failOn: "ProfileByWallet"}

	_, err := newTestService(client).GetProfilePage(context.Background(), "0xABC123", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "query profile")
}

func TestCreateProfile(t *testing.T) {
	client := &fakeGraphQLClient{responses: map[string]string{
		"CreateProfile": `{"createProfile":{"id":"p9","wallet":"0xABC123","displayName":"Nova"}}`,
	}}

	profile, err := newTestService(client).CreateProfile(context.Background(), ProfileDraft{
		Wallet:      " 0xABC123 ",
		DisplayName: "  Nova ",
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", profile.ID)
	assert.Equal(t, "0xABC123", profile.Wallet)

	require.Len(t, client.requests, 1)
	input, ok := client.requests[0].Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nova", input["displayName"])
	assert.Equal(t, "0xABC123", input["wallet"])
}

func TestCreateProfileValidation(t *testing.T) {
	client := &fakeGraphQLClient{}

	_, err := newTestService(client).CreateProfile(context.Background(), ProfileDraft{
		AvatarURL: "ftp://example.com/a.png",
	})
	require.ErrorIs(t, err, ErrValidation)

	validationErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validationErr.Fields, "wallet")
	assert.Contains(t, validationErr.Fields, "display_name")
	assert.Contains(t, validationErr.Fields, "avatar_url")
	assert.Empty(t, client.requests)
}

func TestCreateListing(t *testing.T) {
	client := &fakeGraphQLClient{responses: map[string]string{
		"CreateListing": `{"createListing":{"id":"l7","title":"Star chart","price":0.5,"currency":"SOL"}}`,
	}}

	listing, err := newTestService(client).CreateListing(context.Background(), ListingDraft{
		Seller:   "0xABC123",
		Title:    "Star chart",
		Price:    "0.5",
		Currency: "sol",
	})
	require.NoError(t, err)
	assert.Equal(t, "l7", listing.ID)
	assert.Equal(t, "0.5", listing.Price)

	input, ok := client.requests[0].Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SOL", input["currency"])
	assert.Equal(t, 0.5, input["price"])
}

func TestValidateListingDraft(t *testing.T) {
	valid := ListingDraft{Seller: "0xA", Title: "Lamp", Price: "12.000001", Currency: "USDC"}
	require.NoError(t, ValidateListingDraft(valid))

	tests := []struct {
		name  string
		edit  func(*ListingDraft)
		field string
	}{
		{name: "missing seller", edit: func(d *ListingDraft) { d.Seller = "" }, field: "seller"},
		{name: "missing title", edit: func(d *ListingDraft) { d.Title = "" }, field: "title"},
		{name: "zero price", edit: func(d *ListingDraft) { d.Price = "0" }, field: "price"},
		{name: "negative price", edit: func(d *ListingDraft) { d.Price = "-1" }, field: "price"},
		{name: "too precise", edit: func(d *ListingDraft) { d.Price = "1.1234567" }, field: "price"},
		{name: "unknown currency", edit: func(d *ListingDraft) { d.Currency = "DOGE" }, field: "currency"},
		{name: "bad image", edit: func(d *ListingDraft) { d.ImageURL = "not a url" }, field: "image_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := valid
			tc.edit(&draft)

			validationErr, ok := AsValidationError(ValidateListingDraft(draft))
			require.True(t, ok)
			assert.Contains(t, validationErr.Fields, tc.field)
		})
	}
}
