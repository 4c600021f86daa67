package sensorthings

import (
	"context"
	"fmt"
	"net/http"

	"github.com/phenocover/raster2sensor/pkg/sta"
	"github.com/phenocover/raster2sensor/query"
)

// ThingService provides access to SensorThings Thing entities.
type ThingService struct {
	client *Client
}

// List retrieves all Things matching the query, walking every page.
func (s *ThingService) List(ctx context.Context, q *query.Query) ([]sta.Entity, error) {
	urlStr, err := s.client.buildURL("/Things", q.Values())
	if err != nil {
		return nil, err
	}
	return s.client.FetchAll(ctx, urlStr)
}

// Get retrieves a single Thing by its @iot.id.
func (s *ThingService) Get(ctx context.Context, id any, opts ...RequestOption) (sta.Entity, error) {
	endpoint, err := entityPath("Things", id)
	if err != nil {
		return nil, err
	}
	var entity sta.Entity
	if err := s.client.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &entity, opts); err != nil {
		return nil, err
	}
	return entity, nil
}

// Create inserts a Thing, deep-inserting any nested Locations. It returns
// the self link of the created entity from the Location response header.
func (s *ThingService) Create(ctx context.Context, thing sta.Thing, opts ...RequestOption) (string, error) {
	if thing.Name == "" {
		return "", fmt.Errorf("sensorthings: thing name is required")
	}
	urlStr, err := s.client.buildURL("/Things", nil)
	if err != nil {
		return "", err
	}
	req, err := s.client.newRequest(ctx, http.MethodPost, urlStr, thing, opts)
	if err != nil {
		return "", err
	}
	resp, err := s.client.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return resp.Header.Get("Location"), nil
}

// entityPath renders the OData-style addressing form Things(1) or
// Things('name') depending on the id type.
func entityPath(set string, id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", fmt.Errorf("sensorthings: entity id is required")
	case string:
		if v == "" {
			return "", fmt.Errorf("sensorthings: entity id is required")
		}
		return fmt.Sprintf("/%s('%s')", set, v), nil
	default:
		return fmt.Sprintf("/%s(%v)", set, v), nil
	}
}
