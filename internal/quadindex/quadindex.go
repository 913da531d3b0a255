// Package quadindex implements the spatial-index side of a reverse-geocoding
// query. Entities are bucketed into an equirectangular cell grid, one cell
// key per entity, chosen by the database builder at the level matching the
// geometry extent. A query enumerates every cell overlapping the search
// circle at every level and resolves candidate batches through a
// caller-supplied lookup, so the index stays independent of store and
// decoder specifics.
package quadindex

import (
	"math"
	"sort"

	"github.com/geoforge/revgeo/internal/domain"
	"github.com/geoforge/revgeo/internal/domain/geo"
)

// MaxLevel is the finest grid level. At level 16 a cell spans roughly 600 m
// of longitude at the equator.
const MaxLevel = 16

// lookupBatchSize bounds the number of cell keys resolved per lookup call,
// which also bounds the length of the SQL IN list built from them.
const lookupBatchSize = 256

// LookupFunc resolves a batch of cell keys into decoded geometry. The
// converter translates local-planar coordinates into the space distance
// computation happens in.
type LookupFunc func(cellKeys []uint64, conv domain.PointConverter) ([]domain.GeometryInfo, error)

// Result is one candidate entity with its distance in meters from the query
// point.
type Result struct {
	ID       domain.EntityID
	Distance float64
}

// Index is a per-query spatial index bound to one database's lookup.
type Index struct {
	lookup LookupFunc
}

// New creates an index driving the given lookup.
func New(lookup LookupFunc) *Index {
	return &Index{lookup: lookup}
}

// FindGeometries returns every candidate within radius meters of the query
// point, ascending by distance. The visited cell set is a superset of every
// cell that could hold a matching geometry, so no true match is omitted.
func (idx *Index) FindGeometries(lng, lat, radius float64) ([]Result, error) {
	if radius <= 0 {
		return nil, nil
	}

	mLng, mLat := geo.MetersPerDegree(lat)
	dLat := radius / mLat
	dLng := 180.0
	if mLng > 0 {
		dLng = radius / mLng
	}

	minLng, maxLng := clamp(lng-dLng, -180, 180), clamp(lng+dLng, -180, 180)
	minLat, maxLat := clamp(lat-dLat, -90, 90), clamp(lat+dLat, -90, 90)

	q := domain.Point{Lng: lng, Lat: lat}
	best := make(map[domain.EntityID]float64)

	for level := 0; level <= MaxLevel; level++ {
		keys := coverKeys(level, minLng, minLat, maxLng, maxLat)
		for start := 0; start < len(keys); start += lookupBatchSize {
			end := start + lookupBatchSize
			if end > len(keys) {
				end = len(keys)
			}
			infos, err := idx.lookup(keys[start:end], func(p domain.Point) domain.Point { return p })
			if err != nil {
				return nil, err
			}
			for _, info := range infos {
				d := domain.MinDistance(info.Geometry, q, mLng, mLat)
				if d > radius {
					continue
				}
				if prev, ok := best[info.ID]; !ok || d < prev {
					best[info.ID] = d
				}
			}
		}
	}

	results := make([]Result, 0, len(best))
	for id, d := range best {
		results = append(results, Result{ID: id, Distance: d})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// CellKey returns the key of the cell containing the point at the given
// level. Keys embed the level, so keys from different levels never collide.
func CellKey(level int, lng, lat float64) uint64 {
	n := uint64(1) << uint(level)
	x := cellIndex(lng, -180, 360, n)
	y := cellIndex(lat, -90, 180, n)
	return packKey(level, x, y)
}

// LevelForExtent returns the finest level whose cell span (in degrees of
// longitude) still covers the given geometry extent. Builders store each
// entity's key at this level.
func LevelForExtent(extentDeg float64) int {
	for level := MaxLevel; level > 0; level-- {
		if 360/float64(uint64(1)<<uint(level)) >= extentDeg {
			return level
		}
	}
	return 0
}

func packKey(level int, x, y uint64) uint64 {
	return uint64(level)<<56 | y<<28 | x
}

func cellIndex(v, min, span float64, n uint64) uint64 {
	i := int64(math.Floor((v - min) / span * float64(n)))
	if i < 0 {
		i = 0
	}
	if i >= int64(n) {
		i = int64(n) - 1
	}
	return uint64(i)
}

// coverKeys enumerates the keys of all cells at one level overlapping the
// bounding box, in ascending key order.
func coverKeys(level int, minLng, minLat, maxLng, maxLat float64) []uint64 {
	n := uint64(1) << uint(level)
	x0 := cellIndex(minLng, -180, 360, n)
	x1 := cellIndex(maxLng, -180, 360, n)
	y0 := cellIndex(minLat, -90, 180, n)
	y1 := cellIndex(maxLat, -90, 180, n)

	keys := make([]uint64, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			keys = append(keys, packKey(level, x, y))
		}
	}
	return keys
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
