package revgeo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/geoforge/revgeo/internal/cache"
	"github.com/geoforge/revgeo/internal/domain"
	"github.com/geoforge/revgeo/internal/domain/geo"
	"github.com/geoforge/revgeo/internal/geomcodec"
	"github.com/geoforge/revgeo/internal/interpolator"
	"github.com/geoforge/revgeo/internal/metrics"
	"github.com/geoforge/revgeo/internal/quadindex"
)

// database is one imported geocoding source. All fields are immutable after
// import.
type database struct {
	id     string
	store  Store
	bounds *domain.Bounds // nil means unbounded
	origin domain.Point
}

// Geocoder federates reverse-geocoding queries across imported databases.
// A single lock serializes every public operation, so a Geocoder may be
// shared freely between goroutines.
type Geocoder struct {
	mu  sync.Mutex
	log *zap.Logger

	databases []*database

	addressCache *cache.Cache[string, domain.Address]
	queryCache   *cache.Cache[string, []domain.GeometryInfo]

	radius   float64
	language string
	filters  []domain.Type

	queryCounter uint64
}

// New creates a Geocoder with no databases registered.
func New(opts ...Option) *Geocoder {
	cfg := &geocoderConfig{
		radius:           DefaultRadiusMeters,
		addressCacheSize: DefaultAddressCacheSize,
		queryCacheSize:   DefaultQueryCacheSize,
		logger:           zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Geocoder{
		log:          cfg.logger,
		addressCache: cache.New[string, domain.Address](cfg.addressCacheSize),
		queryCache:   cache.New[string, []domain.GeometryInfo](cfg.queryCacheSize),
		radius:       cfg.radius,
		language:     cfg.language,
	}
}

// Import registers a pre-built database. The store's "origin" and "bounds"
// metadata are read once; a database without bounds is always queried.
// Malformed metadata fails the import and leaves the registry unchanged.
func (g *Geocoder) Import(ctx context.Context, store Store) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	origin, err := readOrigin(ctx, store)
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}
	bounds, err := readBounds(ctx, store)
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}

	d := &database{
		id:     "db" + strconv.Itoa(len(g.databases)),
		store:  store,
		bounds: bounds,
		origin: origin,
	}
	g.databases = append(g.databases, d)

	g.log.Info("imported database",
		zap.String("id", d.id),
		zap.Float64("origin_lng", origin.Lng),
		zap.Float64("origin_lat", origin.Lat),
		zap.Bool("bounded", bounds != nil),
	)
	return d.id, nil
}

// Radius returns the search radius in meters.
func (g *Geocoder) Radius() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.radius
}

// SetRadius sets the search radius in meters. A non-positive radius makes
// every query return no results.
func (g *Geocoder) SetRadius(radius float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.radius = radius
}

// Language returns the active language code.
func (g *Geocoder) Language() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.language
}

// SetLanguage sets the language for address text fields. Cached addresses
// carry language-dependent text, so the address cache is cleared; cached
// geometry info is language-independent and survives.
func (g *Geocoder) SetLanguage(lang string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.language = lang
	g.addressCache.Clear()
}

// IsFilterEnabled reports whether the given address type is in the enabled
// filter set.
func (g *Geocoder) IsFilterEnabled(t AddressType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range g.filters {
		if f == t {
			return true
		}
	}
	return false
}

// SetFilterEnabled adds or removes an address type from the enabled filter
// set. An empty set means no filtering. Enabling an enabled type or
// disabling an absent one is a no-op.
func (g *Geocoder) SetFilterEnabled(t AddressType, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, f := range g.filters {
		if f == t {
			if !enabled {
				g.filters = append(g.filters[:i], g.filters[i+1:]...)
			}
			return
		}
	}
	if enabled {
		g.filters = append(g.filters, t)
	}
}

// QueryCount returns the number of entity queries issued against stores
// since construction. Diagnostic only: cache hits do not increment it.
func (g *Geocoder) QueryCount() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queryCounter
}

// FindAddresses returns every address within the configured radius of the
// query point, ranked by linear distance decay, in database registration
// order. A store or decode failure in any database aborts the whole query.
func (g *Geocoder) FindAddresses(ctx context.Context, lng, lat float64) ([]Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !geo.ValidateCoordinates(lng, lat) {
		return nil, fmt.Errorf("%w: (%g, %g)", domain.ErrInvalidCoordinates, lng, lat)
	}

	start := time.Now()
	defer func() { metrics.FindDuration.Observe(time.Since(start).Seconds()) }()

	if g.radius <= 0 {
		return nil, nil
	}

	q := domain.Point{Lng: lng, Lat: lat}
	mLng, mLat := geo.MetersPerDegree(lat)

	var addresses []Result
	for _, d := range g.databases {
		if d.bounds != nil {
			near := d.bounds.NearestPoint(q)
			dist := math.Hypot((near.Lng-lng)*mLng, (near.Lat-lat)*mLat)
			if dist > g.radius {
				continue
			}
		}

		idx := quadindex.New(func(keys []uint64, conv domain.PointConverter) ([]domain.GeometryInfo, error) {
			return g.findGeometryInfo(ctx, d, keys, conv)
		})
		results, err := idx.FindGeometries(lng, lat, g.radius)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", d.id, err)
		}

		for _, r := range results {
			rank := 1 - r.Distance/g.radius
			if rank <= 0 {
				continue
			}
			addr, err := g.resolveAddress(ctx, d, r.ID)
			if err != nil {
				return nil, fmt.Errorf("resolve %s/%d: %w", d.id, r.ID, err)
			}
			addresses = append(addresses, Result{Address: addr, Rank: rank})
		}
	}

	g.log.Debug("find addresses",
		zap.Float64("lng", lng),
		zap.Float64("lat", lat),
		zap.Int("results", len(addresses)),
		zap.Duration("took", time.Since(start)),
	)
	return addresses, nil
}

// findGeometryInfo resolves a batch of cell keys into decoded geometry,
// backed by the query cache. mu is held by the caller.
func (g *Geocoder) findGeometryInfo(ctx context.Context, d *database, keys []uint64, conv domain.PointConverter) ([]domain.GeometryInfo, error) {
	query := buildEntityQuery(keys, g.filters)
	cacheKey := d.id + "_" + query

	if infos, ok := g.queryCache.Read(cacheKey); ok {
		metrics.QueryCacheTotal.WithLabelValues("hit").Inc()
		return infos, nil
	}
	metrics.QueryCacheTotal.WithLabelValues("miss").Inc()

	rows, err := d.store.QueryEntities(ctx, query)
	if err != nil {
		return nil, err
	}
	g.queryCounter++
	metrics.EntityQueriesTotal.WithLabelValues(d.id).Inc()

	localToCaller := func(p domain.Point) domain.Point { return conv(d.origin.Add(p)) }

	var infos []domain.GeometryInfo
	for _, row := range rows {
		features, err := geomcodec.Decode(row.Features, localToCaller)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", row.ID, err)
		}
		if row.HouseNumbers != "" {
			entries, err := interpolator.Enumerate(row.HouseNumbers, geomcodec.Geometries(features))
			if err != nil {
				return nil, fmt.Errorf("entity %d: %w", row.ID, err)
			}
			for i, e := range entries {
				infos = append(infos, domain.GeometryInfo{
					ID:       domain.InterpolatedID(row.ID, uint32(i+1)),
					Geometry: []domain.Geometry{e.Geometry},
				})
			}
		} else {
			infos = append(infos, domain.GeometryInfo{
				ID:       domain.DirectID(row.ID),
				Geometry: geomcodec.Geometries(features),
			})
		}
	}

	g.queryCache.Put(cacheKey, infos)
	return infos, nil
}

// resolveAddress loads one address, backed by the address cache. mu is held
// by the caller.
func (g *Geocoder) resolveAddress(ctx context.Context, d *database, id domain.EntityID) (domain.Address, error) {
	cacheKey := d.id + "_" + strconv.FormatUint(uint64(id), 10)
	if addr, ok := g.addressCache.Read(cacheKey); ok {
		metrics.AddressCacheTotal.WithLabelValues("hit").Inc()
		return addr, nil
	}
	metrics.AddressCacheTotal.WithLabelValues("miss").Inc()

	row, ok, err := d.store.Address(ctx, id.Row(), g.language)
	if err != nil {
		return domain.Address{}, err
	}
	if !ok {
		return domain.Address{}, fmt.Errorf("entity %d missing from store", id.Row())
	}

	addr, err := buildAddress(d.origin, row, id)
	if err != nil {
		return domain.Address{}, err
	}
	g.addressCache.Put(cacheKey, addr)
	return addr, nil
}

// buildAddress assembles an Address from its store row, regenerating the
// interpolated entry for packed sub-address ids.
func buildAddress(origin domain.Point, row AddressRow, id domain.EntityID) (domain.Address, error) {
	features, err := geomcodec.Decode(row.Features, origin.Add)
	if err != nil {
		return domain.Address{}, err
	}

	addr := domain.Address{
		Type:          domain.Type(row.Type),
		Country:       row.Country,
		Region:        row.Region,
		County:        row.County,
		Locality:      row.Locality,
		Neighbourhood: row.Neighbourhood,
		Street:        row.Street,
		Postcode:      row.Postcode,
		Name:          row.Name,
	}

	if id.IsInterpolated() {
		entries, err := interpolator.Enumerate(row.HouseNumbers, geomcodec.Geometries(features))
		if err != nil {
			return domain.Address{}, err
		}
		k := int(id.Index())
		if k < 1 || k > len(entries) {
			return domain.Address{}, fmt.Errorf("interpolation index %d out of range for entity %d", k, row.ID)
		}
		addr.Type = domain.TypeHouseNumber
		addr.HouseNumber = entries[k-1].Label
		addr.Geometry = []domain.Geometry{entries[k-1].Geometry}
		return addr, nil
	}

	addr.Geometry = geomcodec.Geometries(features)
	return addr, nil
}

// buildEntityQuery renders the deterministic entity query for a sorted key
// batch and the enabled filter set.
func buildEntityQuery(keys []uint64, filters []domain.Type) string {
	var b strings.Builder
	b.WriteString("SELECT id, features, housenumbers FROM entities WHERE quadindex IN (")
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(k, 10))
	}
	b.WriteByte(')')
	if len(filters) > 0 {
		b.WriteString(" AND (")
		b.WriteString(domain.BuildTypeFilter(filters))
		b.WriteByte(')')
	}
	return b.String()
}

// readOrigin parses the "origin" metadata tuple, defaulting to (0,0).
func readOrigin(ctx context.Context, store Store) (domain.Point, error) {
	value, ok, err := store.Metadata(ctx, "origin")
	if err != nil {
		return domain.Point{}, err
	}
	if !ok {
		return domain.Point{}, nil
	}
	nums, err := parseTuple(value, 2)
	if err != nil {
		return domain.Point{}, fmt.Errorf("origin: %w", err)
	}
	return domain.Point{Lng: nums[0], Lat: nums[1]}, nil
}

// readBounds parses the "bounds" metadata tuple; absent means unbounded.
func readBounds(ctx context.Context, store Store) (*domain.Bounds, error) {
	value, ok, err := store.Metadata(ctx, "bounds")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	nums, err := parseTuple(value, 4)
	if err != nil {
		return nil, fmt.Errorf("bounds: %w", err)
	}
	return &domain.Bounds{
		Min: domain.Point{Lng: nums[0], Lat: nums[1]},
		Max: domain.Point{Lng: nums[2], Lat: nums[3]},
	}, nil
}

func parseTuple(value string, arity int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != arity {
		return nil, fmt.Errorf("%w: want %d fields, got %q", domain.ErrMalformedMetadata, arity, value)
	}
	nums := make([]float64, arity)
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d of %q", domain.ErrMalformedMetadata, i, value)
		}
		nums[i] = n
	}
	return nums, nil
}
