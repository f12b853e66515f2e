// Package filter provides fragment filtering functions
package filter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
)

// Config holds filtering configuration
type Config struct {
	MinMass          *decimal.Decimal // Keep only fragments at or above this mass (nil = no limit)
	MaxMass          *decimal.Decimal // Keep only fragments at or below this mass (nil = no limit)
	ExcludePrecursor bool             // Drop the uncleaved structure
	MaxCleaved       int              // Keep only fragments with at most this many cleaved bonds (0 = no limit)
	BondKinds        []core.BondKind  // Keep only fragments whose cleaved bonds are all of these kinds (nil = all)
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if c.MinMass != nil && c.MinMass.IsNegative() {
		return fmt.Errorf("minimum mass must be non-negative, got %s", c.MinMass)
	}
	if c.MinMass != nil && c.MaxMass != nil && c.MinMass.GreaterThan(*c.MaxMass) {
		return fmt.Errorf("minimum mass %s exceeds maximum mass %s", c.MinMass, c.MaxMass)
	}
	if c.MaxCleaved < 0 {
		return fmt.Errorf("max cleaved bonds must be non-negative, got %d", c.MaxCleaved)
	}
	return nil
}

// Enabled reports whether any filter is configured
func (c *Config) Enabled() bool {
	return c.MinMass != nil || c.MaxMass != nil || c.ExcludePrecursor || c.MaxCleaved > 0 || len(c.BondKinds) > 0
}

// Apply applies all configured filters to a fragment list of structure s,
// preserving order. s is needed to look up the kinds of cleaved bonds.
func (c *Config) Apply(s *core.Structure, fragments []fragment.Fragment) []fragment.Fragment {
	if !c.Enabled() {
		return fragments
	}

	var filtered []fragment.Fragment
	for _, f := range fragments {
		if c.keep(s, f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

func (c *Config) keep(s *core.Structure, f fragment.Fragment) bool {
	if c.ExcludePrecursor && f.IsPrecursor() {
		return false
	}
	if !c.inMassWindow(f.Mass) {
		return false
	}
	if c.MaxCleaved > 0 && len(f.Cleaved) > c.MaxCleaved {
		return false
	}
	if len(c.BondKinds) > 0 && !matchesBondKinds(s, f.Cleaved, c.BondKinds) {
		return false
	}
	return true
}

// inMassWindow checks a mass against the configured bounds
func (c *Config) inMassWindow(m decimal.Decimal) bool {
	if c.MinMass != nil && m.LessThan(*c.MinMass) {
		return false
	}
	if c.MaxMass != nil && m.GreaterThan(*c.MaxMass) {
		return false
	}
	return true
}

// matchesBondKinds checks that every cleaved bond is of an allowed kind
func matchesBondKinds(s *core.Structure, cleaved []int, kinds []core.BondKind) bool {
	for _, id := range cleaved {
		kind := s.Bond(id).Kind
		allowed := false
		for _, k := range kinds {
			if k == kind {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

// ParseMass parses an optional mass bound; an empty string means no bound
func ParseMass(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	m, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid mass '%s': %w", s, err)
	}
	return &m, nil
}

// MassRange returns the lowest and highest mass in a fragment list
func MassRange(fragments []fragment.Fragment) (lo, hi decimal.Decimal, ok bool) {
	for i, f := range fragments {
		if i == 0 || f.Mass.LessThan(lo) {
			lo = f.Mass
		}
		if i == 0 || f.Mass.GreaterThan(hi) {
			hi = f.Mass
		}
	}
	return lo, hi, len(fragments) > 0
}
