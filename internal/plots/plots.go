// Package plots manages trial plots stored as SensorThings Things with
// GeoJSON Locations. Fetching renders a trial's plots as a GeoJSON
// FeatureCollection; creating deep-inserts Things from one.
package plots

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	sensorthings "github.com/phenocover/raster2sensor/client"
	"github.com/phenocover/raster2sensor/pkg/sta"
	"github.com/phenocover/raster2sensor/query"
)

// TrialIDProperty is the Thing property that ties a plot to a trial.
const TrialIDProperty = "trial_id"

// Service performs plot operations against one SensorThings endpoint.
type Service struct {
	client *sensorthings.Client
	logger zerolog.Logger
}

// NewService constructs a plot service.
func NewService(client *sensorthings.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Fetch retrieves every plot of a trial as a GeoJSON FeatureCollection.
// Things without a Location are skipped with a warning; a trial with no
// plots yields an empty collection.
func (s *Service) Fetch(ctx context.Context, trialID string) (*geojson.FeatureCollection, error) {
	if trialID == "" {
		return nil, fmt.Errorf("plots: trial id is required")
	}

	q := query.New().
		Filter(query.Eq("properties/"+TrialIDProperty, trialID)).
		Expand("Locations")

	things, err := s.client.Things().List(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("trial_id", trialID).Int("things", len(things)).Msg("fetched plot things")

	fc := geojson.NewFeatureCollection()
	for _, thing := range things {
		feature, err := featureFromThing(thing)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Any("thing_id", thing.ID()).
				Msg("skipping plot without usable geometry")
			continue
		}
		fc.Append(feature)
	}

	s.logger.Info().Str("trial_id", trialID).Int("plots", len(fc.Features)).Msg("fetched trial plots")
	return fc, nil
}

// Create inserts one Thing per feature of the collection, deep-inserting a
// GeoJSON Location, and stamps each with the trial id. It returns the
// number of plots created; the first failure aborts.
func (s *Service) Create(ctx context.Context, trialID string, fc *geojson.FeatureCollection) (int, error) {
	if trialID == "" {
		return 0, fmt.Errorf("plots: trial id is required")
	}
	if fc == nil || len(fc.Features) == 0 {
		return 0, fmt.Errorf("plots: feature collection is empty")
	}

	created := 0
	for i, feature := range fc.Features {
		thing, err := thingFromFeature(trialID, i, feature)
		if err != nil {
			return created, err
		}
		selfLink, err := s.client.Things().Create(ctx, thing)
		if err != nil {
			return created, fmt.Errorf("plots: create plot %q: %w", thing.Name, err)
		}
		created++
		s.logger.Debug().Str("plot", thing.Name).Str("self_link", selfLink).Msg("created plot")
	}

	s.logger.Info().Str("trial_id", trialID).Int("plots", created).Msg("created trial plots")
	return created, nil
}

// featureFromThing converts a Thing with expanded Locations into a GeoJSON
// feature: geometry from the first Location, properties from the Thing.
func featureFromThing(thing sta.Entity) (*geojson.Feature, error) {
	locations := thing.Expanded("Locations")
	if len(locations) == 0 {
		return nil, fmt.Errorf("plots: thing has no expanded Location")
	}

	raw, ok := locations[0]["location"]
	if !ok {
		return nil, fmt.Errorf("plots: location entity has no geometry")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("plots: encode location geometry: %w", err)
	}
	geometry, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("plots: decode location geometry: %w", err)
	}

	feature := geojson.NewFeature(geometry.Geometry())
	if id := thing.ID(); id != nil {
		feature.ID = id
	}
	feature.Properties = geojson.Properties{}
	for key, value := range thing.Properties() {
		feature.Properties[key] = value
	}
	if name := thing.Name(); name != "" {
		feature.Properties["name"] = name
	}
	if description := thing.Description(); description != "" {
		feature.Properties["description"] = description
	}
	return feature, nil
}

// thingFromFeature builds the deep-insert body for one plot feature.
func thingFromFeature(trialID string, index int, feature *geojson.Feature) (sta.Thing, error) {
	if feature == nil || feature.Geometry == nil {
		return sta.Thing{}, fmt.Errorf("plots: feature %d has no geometry", index)
	}

	name := stringProperty(feature, "name")
	if name == "" {
		name = fmt.Sprintf("%s-plot-%d", trialID, index+1)
	}
	description := stringProperty(feature, "description")
	if description == "" {
		description = fmt.Sprintf("Trial plot for %s", trialID)
	}

	properties := map[string]any{TrialIDProperty: trialID}
	for key, value := range feature.Properties {
		if key == "name" || key == "description" {
			continue
		}
		properties[key] = value
	}

	return sta.Thing{
		Name:        name,
		Description: description,
		Properties:  properties,
		Locations: []sta.Location{
			sta.NewGeoJSONLocation(name, description, geojson.NewGeometry(feature.Geometry)),
		},
	}, nil
}

func stringProperty(feature *geojson.Feature, key string) string {
	value, ok := feature.Properties[key].(string)
	if !ok {
		return ""
	}
	return value
}
