package profiles

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"github.com/rs/zerolog"

	"market/internal/gql"
	md "market/internal/markdown"
)

var ErrNotFound = errors.New("not found")

var ErrValidation = errors.New("validation failed")

const (
	maxDisplayNameLength = 64
	maxBioLength         = 2000
	maxTitleLength       = 120
	maxDescriptionLength = 5000
	listingExcerptLength = 160
)

var SupportedCurrencies = []string{"ETH", "SOL", "USDC"}

var pricePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,6})?$`)

// ValidationError maps form field names to a human-readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

type Service struct {
	client   genqlientgraphql.Client
	pageSize int
	rootURL  string
	logger   zerolog.Logger
}

type Profile struct {
	ID          string
	Wallet      string
	DisplayName string
	Bio         string
	BioHTML     template.HTML
	AvatarURL   string
	JoinedAt    string
}

type Listing struct {
	ID              string
	Title           string
	Excerpt         string
	DescriptionHTML template.HTML
	Price           string
	Currency        string
	ImageURL        string
	ListedAt        string
}

type ProfilePage struct {
	Profile    Profile
	Listings   []Listing
	Page       int
	TotalPages int
}

type ProfileDraft struct {
	Wallet      string
	DisplayName string
	Bio         string
	AvatarURL   string
}

type ListingDraft struct {
	Seller      string
	Title       string
	Description string
	Price       string
	Currency    string
	ImageURL    string
}

func NewService(client genqlientgraphql.Client, pageSize int, rootURL string, logger zerolog.Logger) *Service {
	if pageSize < 1 {
		pageSize = 12
	}

	return &Service{
		client:   client,
		pageSize: pageSize,
		rootURL:  strings.TrimSpace(rootURL),
		logger:   logger,
	}
}

// GetProfilePage loads the profile owned by wallet and one page of its
// listings. The wallet is used exactly as given.
func (s *Service) GetProfilePage(ctx context.Context, wallet string, page int) (ProfilePage, error) {
	page = sanitizePage(page)

	profileResponse, err := gql.ProfileByWallet(ctx, s.client, wallet)
	if err != nil {
		return ProfilePage{}, fmt.Errorf("query profile: %w", err)
	}
	if profileResponse == nil || len(profileResponse.Profiles.Docs) == 0 {
		return ProfilePage{}, ErrNotFound
	}

	profile := s.mapProfile(profileResponse.Profiles.Docs[0])
	if profile.Wallet == "" {
		profile.Wallet = wallet
	}

	listingsResponse, err := gql.ListingsBySeller(ctx, s.client, wallet, page, s.pageSize)
	if err != nil {
		return ProfilePage{}, fmt.Errorf("query listings: %w", err)
	}

	result := ProfilePage{
		Profile:    profile,
		Listings:   []Listing{},
		Page:       page,
		TotalPages: 1,
	}
	if listingsResponse != nil {
		for _, node := range listingsResponse.Listings.Docs {
			result.Listings = append(result.Listings, s.mapListing(node))
		}
		if listingsResponse.Listings.TotalPages > 1 {
			result.TotalPages = listingsResponse.Listings.TotalPages
		}
	}

	return result, nil
}

func (s *Service) CreateProfile(ctx context.Context, draft ProfileDraft) (Profile, error) {
	draft = normalizeProfileDraft(draft)
	if err := ValidateProfileDraft(draft); err != nil {
		return Profile{}, err
	}

	response, err := gql.CreateProfile(ctx, s.client, gql.ProfileInput{
		Wallet:      draft.Wallet,
		DisplayName: draft.DisplayName,
		Bio:         draft.Bio,
		AvatarURL:   draft.AvatarURL,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}

	profile := s.mapProfile(response.CreateProfile)
	if profile.Wallet == "" {
		profile.Wallet = draft.Wallet
	}
	s.logger.Info().Str("wallet", profile.Wallet).Str("profile_id", profile.ID).Msg("profile created")
	return profile, nil
}

func (s *Service) CreateListing(ctx context.Context, draft ListingDraft) (Listing, error) {
	draft = normalizeListingDraft(draft)
	if err := ValidateListingDraft(draft); err != nil {
		return Listing{}, err
	}

	price, err := strconv.ParseFloat(draft.Price, 64)
	if err != nil {
		return Listing{}, &ValidationError{Fields: map[string]string{"price": "must be a number"}}
	}

	response, err := gql.CreateListing(ctx, s.client, gql.ListingInput{
		Seller:      draft.Seller,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       price,
		Currency:    draft.Currency,
		ImageURL:    draft.ImageURL,
	})
	if err != nil {
		return Listing{}, fmt.Errorf("create listing: %w", err)
	}

	listing := s.mapListing(response.CreateListing)
	s.logger.Info().Str("seller", draft.Seller).Str("listing_id", listing.ID).Msg("listing created")
	return listing, nil
}

func ValidateProfileDraft(draft ProfileDraft) error {
	fields := make(map[string]string)

	if draft.Wallet == "" {
		fields["wallet"] = "is required"
	}
	switch length := utf8.RuneCountInString(draft.DisplayName); {
	case length == 0:
		fields["display_name"] = "is required"
	case length > maxDisplayNameLength:
		fields["display_name"] = fmt.Sprintf("must be at most %d characters", maxDisplayNameLength)
	}
	if utf8.RuneCountInString(draft.Bio) > maxBioLength {
		fields["bio"] = fmt.Sprintf("must be at most %d characters", maxBioLength)
	}
	if draft.AvatarURL != "" && !isHTTPURL(draft.AvatarURL) {
		fields["avatar_url"] = "must be an http(s) URL"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func ValidateListingDraft(draft ListingDraft) error {
	fields := make(map[string]string)

	if draft.Seller == "" {
		fields["seller"] = "is required"
	}
	switch length := utf8.RuneCountInString(draft.Title); {
	case length == 0:
		fields["title"] = "is required"
	case length > maxTitleLength:
		fields["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
	}
	if utf8.RuneCountInString(draft.Description) > maxDescriptionLength {
		fields["description"] = fmt.Sprintf("must be at most %d characters", maxDescriptionLength)
	}

	switch {
	case draft.Price == "":
		fields["price"] = "is required"
	case !pricePattern.MatchString(draft.Price):
		fields["price"] = "must be a positive number with at most 6 decimals"
	default:
		if value, err := strconv.ParseFloat(draft.Price, 64); err != nil || value <= 0 {
			fields["price"] = "must be greater than zero"
		}
	}

	if !IsSupportedCurrency(draft.Currency) {
		fields["currency"] = "must be one of " + strings.Join(SupportedCurrencies, ", ")
	}
	if draft.ImageURL != "" && !isHTTPURL(draft.ImageURL) {
		fields["image_url"] = "must be an http(s) URL"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func IsSupportedCurrency(currency string) bool {
	for _, supported := range SupportedCurrencies {
		if currency == supported {
			return true
		}
	}
	return false
}

func normalizeProfileDraft(draft ProfileDraft) ProfileDraft {
	draft.Wallet = strings.TrimSpace(draft.Wallet)
	draft.DisplayName = strings.TrimSpace(draft.DisplayName)
	draft.Bio = strings.TrimSpace(draft.Bio)
	draft.AvatarURL = strings.TrimSpace(draft.AvatarURL)
	return draft
}

func normalizeListingDraft(draft ListingDraft) ListingDraft {
	draft.Seller = strings.TrimSpace(draft.Seller)
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Price = strings.TrimSpace(draft.Price)
	draft.Currency = strings.ToUpper(strings.TrimSpace(draft.Currency))
	draft.ImageURL = strings.TrimSpace(draft.ImageURL)
	return draft
}

func (s *Service) mapProfile(node gql.ProfileNode) Profile {
	displayName := strings.TrimSpace(node.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(node.Wallet)
	}

	return Profile{
		ID:          node.ID,
		Wallet:      strings.TrimSpace(node.Wallet),
		DisplayName: displayName,
		Bio:         node.Bio,
		BioHTML:     md.ToHTML(node.Bio, md.Options{RootURL: s.rootURL}),
		AvatarURL:   safeURL(node.AvatarURL),
		JoinedAt:    formatDate(node.CreatedAt),
	}
}

func (s *Service) mapListing(node gql.ListingNode) Listing {
	title := strings.TrimSpace(node.Title)
	if title == "" {
		title = node.ID
	}

	return Listing{
		ID:              node.ID,
		Title:           title,
		Excerpt:         md.Excerpt(node.Description, listingExcerptLength),
		DescriptionHTML: md.ToHTML(node.Description, md.Options{RootURL: s.rootURL}),
		Price:           formatPrice(node.Price),
		Currency:        strings.TrimSpace(node.Currency),
		ImageURL:        safeURL(node.ImageURL),
		ListedAt:        formatDate(node.CreatedAt),
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}

	return parsed.Format("2006-01-02")
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !isHTTPURL(raw) {
		return ""
	}
	return raw
}

func sanitizePage(page int) int {
	if page < 1 {
		return 1
	}

	return page
}
