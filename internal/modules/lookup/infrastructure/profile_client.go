package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sglre6355/cakebot/internal/fetch"
	"github.com/sglre6355/cakebot/internal/modules/lookup/domain"
)

// Placeholders replaced in a profile URL template.
const (
	PlaceholderUUID    = "{uuid}"
	PlaceholderCompact = "{uuid_compact}"
)

// FetchFunc returns the body found at url.
type FetchFunc func(ctx context.Context, url string) (string, error)

// ProfileClient looks profiles up over HTTP.
type ProfileClient struct {
	fetch     FetchFunc
	template  string
	nameField string
}

// NewProfileClient creates a ProfileClient requesting template with the
// placeholders filled in. A nil fetch uses fetch.Get.
func NewProfileClient(fetchFn FetchFunc, template, nameField string) *ProfileClient {
	if fetchFn == nil {
		fetchFn = fetch.Get
	}
	return &ProfileClient{
		fetch:     fetchFn,
		template:  template,
		nameField: nameField,
	}
}

// URL returns the request URL for a canonical UUID.
func (c *ProfileClient) URL(id string) string {
	return strings.NewReplacer(
		PlaceholderCompact, domain.Compact(id),
		PlaceholderUUID, id,
	).Replace(c.template)
}

// Lookup fetches the profile of a canonical UUID. Not found and no content
// responses yield domain.ErrProfileNotFound.
func (c *ProfileClient) Lookup(ctx context.Context, id string) (domain.Profile, error) {
	body, err := c.fetch(ctx, c.URL(id))
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) &&
			(statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusNoContent) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, err
	}
	return domain.ParseProfile(id, body, c.nameField)
}
