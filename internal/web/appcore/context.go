package appcore

import (
	"context"
	"errors"

	"market/internal/profiles"
)

var errProfileServiceUnavailable = errors.New("profile service unavailable")

// ProfileService is the data capability the pages depend on.
type ProfileService interface {
	GetProfilePage(ctx context.Context, wallet string, page int) (profiles.ProfilePage, error)
	CreateProfile(ctx context.Context, draft profiles.ProfileDraft) (profiles.Profile, error)
	CreateListing(ctx context.Context, draft profiles.ListingDraft) (profiles.Listing, error)
}

type Context struct {
	service    ProfileService
	background BackgroundIntensity
}

func NewContext(service ProfileService, background BackgroundIntensity) *Context {
	return &Context{
		service:    service,
		background: ParseBackgroundIntensity(string(background)),
	}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, profiles.ErrNotFound)
}

func profileService(appCtx *Context) (ProfileService, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errProfileServiceUnavailable
	}
	return appCtx.service, nil
}

func (c *Context) defaultBackground() BackgroundIntensity {
	if c == nil {
		return BackgroundMedium
	}
	return c.background
}
