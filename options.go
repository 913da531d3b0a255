package revgeo

import "go.uber.org/zap"

// Defaults applied by New when no option overrides them.
const (
	DefaultRadiusMeters     = 100.0
	DefaultAddressCacheSize = 1024
	DefaultQueryCacheSize   = 512
)

type geocoderConfig struct {
	radius           float64
	language         string
	addressCacheSize int
	queryCacheSize   int
	logger           *zap.Logger
}

// Option configures a Geocoder at construction time.
type Option func(*geocoderConfig)

// WithRadius sets the initial search radius in meters.
func WithRadius(radius float64) Option {
	return func(c *geocoderConfig) { c.radius = radius }
}

// WithLanguage sets the initial language for address text fields. Empty
// selects the default language stored in each database.
func WithLanguage(lang string) Option {
	return func(c *geocoderConfig) { c.language = lang }
}

// WithAddressCacheSize bounds the address cache entry count.
func WithAddressCacheSize(n int) Option {
	return func(c *geocoderConfig) { c.addressCacheSize = n }
}

// WithQueryCacheSize bounds the geometry-info query cache entry count.
func WithQueryCacheSize(n int) Option {
	return func(c *geocoderConfig) { c.queryCacheSize = n }
}

// WithLogger attaches a zap logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *geocoderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
