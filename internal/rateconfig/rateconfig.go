package rateconfig

import "errors"

// CalcMethod selects how a category commission is computed.
type CalcMethod string

const (
	// CalcPerPiece pays a flat currency amount per unit.
	CalcPerPiece CalcMethod = "per_piece"
	// CalcPercentOfSales pays a percentage of the line's sales amount.
	CalcPercentOfSales CalcMethod = "percent_of_sales"
)

var (
	// ErrEmptyCategory is returned when a config has no category.
	ErrEmptyCategory = errors.New("rateconfig: empty category")
	// ErrNegativeRate is returned when a config rate is negative.
	ErrNegativeRate = errors.New("rateconfig: negative rate")
	// ErrUnknownMethod is returned when a calc method is not recognized.
	ErrUnknownMethod = errors.New("rateconfig: unknown calc method")
)

// RateConfig is the per-category commission rule.
type RateConfig struct {
	Category string     `yaml:"category" json:"category"`
	Method   CalcMethod `yaml:"method" json:"method"`
	Rate     float64    `yaml:"rate" json:"rate"`
	Active   bool       `yaml:"active" json:"active"`
}

// Validate checks a single config entry.
func (c RateConfig) Validate() error {
	if c.Category == "" {
		return ErrEmptyCategory
	}
	if c.Rate < 0 {
		return ErrNegativeRate
	}
	if c.Method != CalcPerPiece && c.Method != CalcPercentOfSales {
		return ErrUnknownMethod
	}
	return nil
}

// Registry holds an immutable snapshot of rate configs. The engine only
// reads the list; the configuration source owns updates.
type Registry struct {
	configs []RateConfig
}

// NewRegistry validates entries and builds a registry.
func NewRegistry(configs []RateConfig) (*Registry, error) {
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	snapshot := make([]RateConfig, len(configs))
	copy(snapshot, configs)
	return &Registry{configs: snapshot}, nil
}

// FindActiveConfig returns the first active config for the category.
// Inactive entries are never used as a fallback.
func (r *Registry) FindActiveConfig(category string) (RateConfig, bool) {
	if r == nil {
		return RateConfig{}, false
	}
	for _, cfg := range r.configs {
		if cfg.Active && cfg.Category == category {
			return cfg, true
		}
	}
	return RateConfig{}, false
}

// All returns a copy of the snapshot.
func (r *Registry) All() []RateConfig {
	if r == nil {
		return nil
	}
	out := make([]RateConfig, len(r.configs))
	copy(out, r.configs)
	return out
}
