package cache

// ScopedKeyer prefixes every key of an inner keyer. Projects sharing one
// redis instance are kept apart by scoping keys with the project name:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "rebels:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey returns the prefixed source key.
func (k *ScopedKeyer) HTTPKey(source string) string {
	return k.prefix + k.inner.HTTPKey(source)
}

// FitKey returns the prefixed fit key.
func (k *ScopedKeyer) FitKey(networkHash string, opts FitKeyOpts) string {
	return k.prefix + k.inner.FitKey(networkHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(networkHash, opts)
}
