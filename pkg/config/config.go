// Package config loads netergm project files.
//
// A project file is TOML:
//
//	name = "rebels"
//	directed = false
//
//	[data]
//	adjacency = "adjacency.csv"
//	attributes = "attributes.csv"
//
//	[[attributes]]
//	name = "size"
//	kind = "numeric"
//
//	[[models]]
//	name = "homophily"
//	terms = ["nodematch(ideology)", "absdiff(size)"]
//
// Relative data paths are resolved against the directory holding the file.
// [Load] decodes, applies defaults and validates in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netergm/pkg/errors"
	"github.com/matzehuels/netergm/pkg/estimate/mple"
	"github.com/matzehuels/netergm/pkg/model"
	"github.com/matzehuels/netergm/pkg/network"
	"github.com/matzehuels/netergm/pkg/table"
)

// DefaultFile is the project file looked up when none is given.
const DefaultFile = "netergm.toml"

// Config is a decoded project file.
type Config struct {
	Name       string      `toml:"name" validate:"required,max=64"`
	Directed   bool        `toml:"directed"`
	Symmetrize string      `toml:"symmetrize" validate:"omitempty,oneof=strict max"`
	Data       Data        `toml:"data"`
	Attributes []Attribute `toml:"attributes" validate:"dive"`
	Models     []Model     `toml:"models" validate:"required,min=1,dive"`
	Estimator  Estimator   `toml:"estimator"`
	Cache      Cache       `toml:"cache"`
	Render     Render      `toml:"render"`

	dir string
}

// Data names the two input tables.
type Data struct {
	Adjacency  string `toml:"adjacency" validate:"required"`
	Attributes string `toml:"attributes" validate:"required"`
	IDColumn   string `toml:"id_column"`
}

// Attribute declares one attribute column.
type Attribute struct {
	Name   string `toml:"name" validate:"required"`
	Column string `toml:"column"`
	Kind   string `toml:"kind" validate:"required,oneof=numeric ordinal categorical label"`
}

// Model is one model specification.
type Model struct {
	Name  string   `toml:"name" validate:"required"`
	Terms []string `toml:"terms" validate:"dive,required"`
}

// Estimator configures estimation.
type Estimator struct {
	Method            string  `toml:"method" validate:"oneof=mple"`
	MaxIterations     int     `toml:"max_iterations" validate:"gte=1,lte=10000"`
	GradientTolerance float64 `toml:"gradient_tolerance" validate:"gt=0,lt=1"`
	KeepGoing         bool    `toml:"keep_going"`
}

// Cache configures the fit and download cache.
type Cache struct {
	Backend  string   `toml:"backend" validate:"oneof=file redis none"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	TTL      Duration `toml:"ttl"`
}

// Render configures the network plot. Label, Size and Color name node
// attributes; empty fields are not mapped.
type Render struct {
	Label  string `toml:"label"`
	Size   string `toml:"size"`
	Color  string `toml:"color"`
	Format string `toml:"format" validate:"oneof=svg png dot"`
	Layout string `toml:"layout" validate:"oneof=dot neato fdp sfdp circo twopi"`
}

// Duration is a time.Duration written as a string ("24h", "90m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads, defaults and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.dir = abs
	return cfg, nil
}

// Parse decodes a project file from memory. Relative paths stay relative to
// the working directory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset optional field.
func (c *Config) SetDefaults() {
	if c.Symmetrize == "" {
		c.Symmetrize = string(network.SymmetrizeStrict)
	}
	if c.Data.IDColumn == "" {
		c.Data.IDColumn = table.DefaultIDColumn
	}
	if c.Estimator.Method == "" {
		c.Estimator.Method = mple.Method
	}
	if c.Estimator.MaxIterations == 0 {
		c.Estimator.MaxIterations = mple.DefaultMaxIterations
	}
	if c.Estimator.GradientTolerance == 0 {
		c.Estimator.GradientTolerance = mple.DefaultGradientTolerance
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 24 * time.Hour
	}
	if c.Render.Format == "" {
		c.Render.Format = "svg"
	}
	if c.Render.Layout == "" {
		c.Render.Layout = "neato"
	}
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string { return c.dir }

// Resolve returns source relative to the config directory. URLs and
// absolute paths are returned unchanged.
func (c *Config) Resolve(source string) string {
	if source == "" || errors.IsURL(source) || filepath.IsAbs(source) || c.dir == "" {
		return source
	}
	return filepath.Join(c.dir, source)
}

// Sources returns the resolved input locations.
func (c *Config) Sources() table.Sources {
	return table.Sources{
		Adjacency:  c.Resolve(c.Data.Adjacency),
		Attributes: c.Resolve(c.Data.Attributes),
	}
}

// Schema returns the attribute table schema.
func (c *Config) Schema() table.Schema {
	s := table.Schema{IDColumn: c.Data.IDColumn}
	for _, a := range c.Attributes {
		s.Columns = append(s.Columns, table.Column{Name: a.Name, Source: a.Column, Kind: table.Kind(a.Kind)})
	}
	return s
}

// NetworkOptions returns the assembly options.
func (c *Config) NetworkOptions() network.Options {
	return network.Options{Directed: c.Directed, Symmetrize: network.Symmetrize(c.Symmetrize)}
}

// Specifications returns the models in file order.
func (c *Config) Specifications() []model.Specification {
	out := make([]model.Specification, len(c.Models))
	for i, m := range c.Models {
		out[i] = model.Specification{Name: m.Name, Terms: m.Terms}
	}
	return out
}

// EstimatorOptions returns the MPLE settings.
func (c *Config) EstimatorOptions() mple.Options {
	return mple.Options{
		MaxIterations:     c.Estimator.MaxIterations,
		GradientTolerance: c.Estimator.GradientTolerance,
	}
}
