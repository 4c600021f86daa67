package sensorthings

import (
	"context"
	"net/http"

	"github.com/phenocover/raster2sensor/pkg/sta"
	"github.com/phenocover/raster2sensor/query"
)

// LocationService provides access to SensorThings Location entities.
type LocationService struct {
	client *Client
}

// List retrieves all Locations matching the query, walking every page.
func (s *LocationService) List(ctx context.Context, q *query.Query) ([]sta.Entity, error) {
	urlStr, err := s.client.buildURL("/Locations", q.Values())
	if err != nil {
		return nil, err
	}
	return s.client.FetchAll(ctx, urlStr)
}

// Get retrieves a single Location by its @iot.id.
func (s *LocationService) Get(ctx context.Context, id any, opts ...RequestOption) (sta.Entity, error) {
	endpoint, err := entityPath("Locations", id)
	if err != nil {
		return nil, err
	}
	var entity sta.Entity
	if err := s.client.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &entity, opts); err != nil {
		return nil, err
	}
	return entity, nil
}
