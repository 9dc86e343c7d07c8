// Package plan loads the subscription plan catalogue that caps how many
// invoices and customers a shop may create.
package plan

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultPlan is used for shops whose plan is missing from the catalogue.
const DefaultPlan = "free"

// Plan holds the per-metric limits of one subscription tier.
type Plan struct {
	// Limits maps a metric name to its cap. A negative cap means unlimited.
	Limits map[string]int `yaml:"limits"`
}

// Catalogue is the full set of subscription plans.
type Catalogue struct {
	Default string          `yaml:"default"`
	Plans   map[string]Plan `yaml:"plans"`
}

// Loader defines the interface for loading a plan catalogue.
type Loader interface {
	// Load reads a YAML catalogue from the given location.
	Load(ctx context.Context, path string) (*Catalogue, error)
}

// Parse decodes a YAML catalogue and checks that its default plan exists.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode plan catalogue: %w", err)
	}

	if len(c.Plans) == 0 {
		return nil, fmt.Errorf("plan catalogue defines no plans")
	}

	if c.Default == "" {
		c.Default = DefaultPlan
	}

	if _, ok := c.Plans[c.Default]; !ok {
		return nil, fmt.Errorf("default plan %q is not defined", c.Default)
	}

	return &c, nil
}

// Limit returns the cap for metric under the named plan. Unknown plans use the
// catalogue default. unlimited is true when the plan does not cap the metric.
func (c *Catalogue) Limit(plan, metric string) (limit int, unlimited bool) {
	p, ok := c.Plans[plan]
	if !ok {
		p = c.Plans[c.Default]
	}

	limit, ok = p.Limits[metric]
	if !ok || limit < 0 {
		return 0, true
	}

	return limit, false
}

// Size returns the number of plans in the catalogue.
func (c *Catalogue) Size() int {
	return len(c.Plans)
}
