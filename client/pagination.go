package sensorthings

import (
	"context"
	"net/http"

	"iter"

	"github.com/phenocover/raster2sensor/pkg/sta"
)

// Page is the envelope every paginated SensorThings response uses: an
// ordered value array plus an optional link to the next page. A missing
// value field decodes as an empty page rather than an error.
type Page struct {
	Count    int64        `json:"@iot.count,omitempty"`
	Value    []sta.Entity `json:"value"`
	NextLink string       `json:"@iot.nextLink,omitempty"`
}

// Entities streams entities lazily, following @iot.nextLink until the
// server omits it. Pages are fetched strictly one at a time; page N+1 is
// never requested before page N has been decoded. Any failure surfaces as
// a *FetchError carrying the page URL, and the walk stops.
func (c *Client) Entities(ctx context.Context, initialURL string) iter.Seq2[sta.Entity, error] {
	return func(yield func(sta.Entity, error) bool) {
		next := initialURL
		for fetched := 0; ; fetched++ {
			if c.maxPages > 0 && fetched >= c.maxPages {
				yield(nil, &FetchError{URL: next, Err: ErrTooManyPages})
				return
			}
			var page Page
			if err := c.doJSONURL(ctx, http.MethodGet, next, nil, &page, nil); err != nil {
				yield(nil, &FetchError{URL: next, Err: err})
				return
			}
			for _, entity := range page.Value {
				if !yield(entity, nil) {
					return
				}
			}
			if page.NextLink == "" {
				return
			}
			next = page.NextLink
		}
	}
}

// FetchAll retrieves every entity of a paginated resource as one ordered
// slice. The result is the concatenation of each page's value array in
// fetch order; ownership transfers to the caller. The slice is never nil.
func (c *Client) FetchAll(ctx context.Context, initialURL string) ([]sta.Entity, error) {
	entities := []sta.Entity{}
	for entity, err := range c.Entities(ctx, initialURL) {
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
