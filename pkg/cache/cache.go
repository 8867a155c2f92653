// Package cache stores simulated layouts and rendered artifacts so repeated
// runs over the same dataset and settings skip the force simulation.
//
// Keys are content addressed: a [Keyer] hashes the dataset bytes together
// with every setting that influences the result. Backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: durable cache with a TTL index
//   - [NullCache]: disables caching
//
// [Open] picks a backend from a location string.
package cache

import (
	"context"
	"strings"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts holds the inputs that change a simulated layout.
type LayoutKeyOpts struct {
	Seed    uint64  `json:"seed"`
	Frames  int     `json:"frames"`
	FrameMs float64 `json:"frameMs"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Focus   int     `json:"focus"`

	// Settings carries the remaining scene settings; it is hashed as JSON.
	Settings any `json:"settings,omitempty"`
}

// ArtifactKeyOpts holds the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer so that several
// deployments can share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// KeyType returns the kind prefix of a key ("layout", "artifact"), ignoring
// any scope. It is used to label cache hooks.
func KeyType(key string) string {
	for _, kind := range []string{"layout", "artifact"} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "unknown"
}

// Open returns a cache for location:
//
//	""                 NullCache
//	"redis://..."      RedisCache
//	"mongodb://..."    MongoCache (also "mongodb+srv://")
//	anything else      FileCache rooted at that directory
func Open(ctx context.Context, location string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case location == "":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		var rc *RedisCache
		if rc, err = NewRedisCacheURL(ctx, location); err == nil {
			c = rc
		}
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		var mc *MongoCache
		if mc, err = NewMongoCache(ctx, MongoConfig{URI: location}); err == nil {
			c = mc
		}
	default:
		var fc *FileCache
		if fc, err = NewFileCache(location); err == nil {
			c = fc
		}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
