package cache

import (
	"slices"
	"time"
)

// Keyer names cache entries.
type Keyer interface {
	// HTTPKey names a downloaded source.
	HTTPKey(source string) string
	// FitKey names the fit of one model on one network.
	FitKey(networkHash string, opts FitKeyOpts) string
	// ArtifactKey names a rendered plot of one network.
	ArtifactKey(networkHash string, opts ArtifactKeyOpts) string
}

// FitKeyOpts holds everything besides the network that a fit depends on.
type FitKeyOpts struct {
	Estimator string   `json:"estimator"`
	Terms     []string `json:"terms"`
}

// ArtifactKeyOpts holds the render settings a plot depends on.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
	Label  string `json:"label,omitempty"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// DefaultKeyer produces "http:", "fit:" and "artifact:" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:" followed by the source.
func (DefaultKeyer) HTTPKey(source string) string { return "http:" + source }

// FitKey hashes the network hash, estimator and term labels. Terms are taken
// in order; reordering terms changes coefficient order and so the entry.
func (DefaultKeyer) FitKey(networkHash string, opts FitKeyOpts) string {
	return hashKey("fit", networkHash, opts.Estimator, slices.Clone(opts.Terms))
}

// ArtifactKey hashes the network hash and render settings.
func (DefaultKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", networkHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Default lifetimes of cache entries.
const (
	TTLFit      = 30 * 24 * time.Hour
	TTLHTTP     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
