// Package docai wraps the Google Document AI call the extraction pipeline
// depends on: processor configuration, the process request itself, transient
// fault retry under a bounded deadline, and fallback to a secondary
// processor when the primary is unavailable.
package docai

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ProcessorRef identifies one Document AI processor.
type ProcessorRef struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// Path returns the full processor resource name.
func (r ProcessorRef) Path() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		r.ProjectID, r.Location, r.ProcessorID)
}

// Duration is a time.Duration that reads from YAML as a duration string
// such as "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("docai config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config carries the Document AI settings: the primary processor, an
// optional fallback processor tried when the primary does not exist, and the
// retry deadline for transient faults.
type Config struct {
	ProcessorRef `yaml:",inline"`

	Fallback *ProcessorRef `yaml:"fallback,omitempty"`

	// RetryDeadline bounds the total time spent retrying transient
	// failures. Zero means the default of one minute.
	RetryDeadline Duration `yaml:"retry_deadline,omitempty"`
}

const defaultRetryDeadline = time.Minute

// Validate checks that the primary processor is fully specified.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("docai config: project_id is required")
	}
	if c.Location == "" {
		return fmt.Errorf("docai config: location is required")
	}
	if c.ProcessorID == "" {
		return fmt.Errorf("docai config: processor_id is required")
	}
	return nil
}

// Endpoint returns the regional API endpoint for the configured location.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

func (c *Config) retryDeadline() time.Duration {
	if c.RetryDeadline > 0 {
		return time.Duration(c.RetryDeadline)
	}
	return defaultRetryDeadline
}
