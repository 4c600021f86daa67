package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phenocover/raster2sensor/internal/logging"
)

// Config holds every runtime setting the CLI commands consume. It can be
// loaded from a YAML or JSON file, or assembled from discrete flags.
type Config struct {
	// SensorThingsURL is the SensorThings service root, including the
	// version segment.
	SensorThingsURL string `yaml:"sensorthingsapi_url" json:"sensorthingsapi_url"`

	// TrialID selects the field trial whose plots are managed.
	TrialID string `yaml:"trial_id" json:"trial_id"`

	// ProcessesURL is the OGC API Processes landing page, when process
	// execution is used.
	ProcessesURL string `yaml:"processes_url,omitempty" json:"processes_url,omitempty"`

	// MaxPages caps a single pagination walk. Zero disables the cap.
	MaxPages int `yaml:"max_pages,omitempty" json:"max_pages,omitempty"`

	// Timeout is the per-request HTTP timeout.
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Logging logging.Config `yaml:"logging,omitempty" json:"logging,omitempty"`
}

// DefaultConfig returns a Config with defaults suitable for a well-behaved
// SensorThings deployment; service URL and trial id must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		MaxPages: 1000,
		Timeout:  Duration(30 * time.Second),
		Logging:  logging.DefaultConfig(),
	}
}

// Duration wraps time.Duration so config files can express timeouts as
// "30s" or "1m" in either YAML or JSON, or as a plain number of seconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err == nil {
		return d.parse(text)
	}
	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration %q", value.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return d.parse(text)
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration %s", string(data))
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) parse(text string) error {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}
