// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd/pgfrag/cmd)
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/filter"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
)

// EnvPrefix prefixes environment variables read into the settings,
// e.g. PGFRAG_FRAGMENTS_MAX_CLEAVAGES.
const EnvPrefix = "PGFRAG"

// FragmentConfig settings about fragmentation
type FragmentConfig struct {
	// the maximum number of bonds cut at once
	MaxCleavages int `mapstructure:"max-cleavages"`

	// the maximum number of cleavage sets examined per structure
	Ceiling int `mapstructure:"ceiling"`

	// how cleaved ends are capped: hydrolysis or direct
	Convention string `mapstructure:"convention"`

	// whether to report every product of a cleavage instead of the
	// one holding the first node
	AllProducts bool `mapstructure:"all-products"`

	// the cleavable bond kinds, empty for all
	Kinds []string `mapstructure:"kinds"`
}

// FilterConfig settings applied to fragment lists after enumeration
type FilterConfig struct {
	// mass window bounds, empty for none
	MinMass string `mapstructure:"min-mass"`
	MaxMass string `mapstructure:"max-mass"`

	// whether to drop the uncleaved structure
	NoPrecursor bool `mapstructure:"no-precursor"`

	// keep only fragments with at most this many cleaved bonds, 0 for all
	MaxCleaved int `mapstructure:"max-cleaved"`
}

// BatchConfig is for settings of commands reading structure lists
type BatchConfig struct {
	// the number of structures processed concurrently
	Threads int `mapstructure:"threads"`

	// the mass agreement required by validate, in ppm
	Tolerance float64 `mapstructure:"tolerance"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file, the environment
// and those available from the command line
type Config struct {
	// path to a CSV of extra modifications (name,delta,target)
	Mods string `mapstructure:"mods"`
	// debug logging
	Verbose bool `mapstructure:"verbose"`
	// Fragmentation settings
	Fragments FragmentConfig `mapstructure:"fragments"`
	// Fragment filters
	Filter FilterConfig `mapstructure:"filter"`
	// Batch settings
	Batch BatchConfig `mapstructure:"batch"`
}

// NewViper returns a Viper instance with every default registered and the
// environment bound.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("mods", "")
	v.SetDefault("verbose", false)
	v.SetDefault("fragments.max-cleavages", fragment.DefaultMaxCleavages)
	v.SetDefault("fragments.ceiling", fragment.DefaultCeiling)
	v.SetDefault("fragments.convention", core.Hydrolysis.String())
	v.SetDefault("fragments.all-products", false)
	v.SetDefault("fragments.kinds", []string{})
	v.SetDefault("filter.min-mass", "")
	v.SetDefault("filter.max-mass", "")
	v.SetDefault("filter.no-precursor", false)
	v.SetDefault("filter.max-cleaved", 0)
	v.SetDefault("batch.threads", 4)
	v.SetDefault("batch.tolerance", 10.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// ReadSettings merges a settings file (YAML, JSON or TOML by extension)
// into v.
func ReadSettings(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks every setting that can be checked without I/O.
func (c Config) Validate() error {
	if _, err := c.EngineOptions(); err != nil {
		return err
	}
	f, err := c.FilterConfig()
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if c.Batch.Threads < 1 {
		return fmt.Errorf("batch.threads must be at least 1, got %d", c.Batch.Threads)
	}
	if c.Batch.Tolerance <= 0 {
		return fmt.Errorf("batch.tolerance must be positive, got %g", c.Batch.Tolerance)
	}
	return nil
}

// EngineOptions converts the fragmentation settings into engine options.
func (c Config) EngineOptions() (fragment.Options, error) {
	opts := fragment.Options{
		MaxCleavages: c.Fragments.MaxCleavages,
		Ceiling:      c.Fragments.Ceiling,
		AllProducts:  c.Fragments.AllProducts,
	}
	if opts.MaxCleavages < 0 {
		return opts, fmt.Errorf("fragments.max-cleavages must be non-negative, got %d", opts.MaxCleavages)
	}
	if opts.Ceiling < 1 {
		return opts, fmt.Errorf("fragments.ceiling must be positive, got %d", opts.Ceiling)
	}

	conv, err := core.ParseConvention(c.Fragments.Convention)
	if err != nil {
		return opts, fmt.Errorf("fragments.convention: %w", err)
	}
	opts.Convention = conv

	for _, name := range c.Fragments.Kinds {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			kind, err := core.ParseBondKind(part)
			if err != nil {
				return opts, fmt.Errorf("fragments.kinds: %w", err)
			}
			opts.Kinds = append(opts.Kinds, kind)
		}
	}
	return opts, nil
}

// FilterConfig converts the filter settings.
func (c Config) FilterConfig() (filter.Config, error) {
	var f filter.Config
	var err error
	if f.MinMass, err = filter.ParseMass(c.Filter.MinMass); err != nil {
		return f, fmt.Errorf("filter.min-mass: %w", err)
	}
	if f.MaxMass, err = filter.ParseMass(c.Filter.MaxMass); err != nil {
		return f, fmt.Errorf("filter.max-mass: %w", err)
	}
	f.ExcludePrecursor = c.Filter.NoPrecursor
	f.MaxCleaved = c.Filter.MaxCleaved
	return f, nil
}

// ModDatabase returns the default modifications extended with those in the
// Mods CSV, if set.
func (c Config) ModDatabase() (*core.ModDatabase, error) {
	db := core.DefaultModDatabase()
	if c.Mods == "" {
		return db, nil
	}

	file, err := os.Open(c.Mods)
	if err != nil {
		return nil, fmt.Errorf("failed to open modifications file: %w", err)
	}
	defer file.Close()

	if err := db.LoadFromCSV(file); err != nil {
		return nil, fmt.Errorf("failed to load modifications from %s: %w", c.Mods, err)
	}
	return db, nil
}
