package domain

import "math"

// Point is a longitude/latitude pair in degrees (or a local-planar offset
// from a database origin before translation).
type Point struct {
	Lng float64
	Lat float64
}

// Add returns the component-wise sum of two points.
func (p Point) Add(o Point) Point {
	return Point{Lng: p.Lng + o.Lng, Lat: p.Lat + o.Lat}
}

// PointConverter translates a local-planar point into caller space.
type PointConverter func(Point) Point

// Geometry is a decoded shape. DistanceTo returns the minimum distance in
// meters from the query point, computed in a plane scaled by the given
// meters-per-degree factors (longitude and latitude scaled independently).
type Geometry interface {
	DistanceTo(q Point, mLng, mLat float64) float64
}

// PointGeometry is a single point.
type PointGeometry struct {
	Point Point
}

func (g PointGeometry) DistanceTo(q Point, mLng, mLat float64) float64 {
	dx := (g.Point.Lng - q.Lng) * mLng
	dy := (g.Point.Lat - q.Lat) * mLat
	return math.Hypot(dx, dy)
}

// LineGeometry is an open polyline.
type LineGeometry struct {
	Points []Point
}

func (g LineGeometry) DistanceTo(q Point, mLng, mLat float64) float64 {
	if len(g.Points) == 0 {
		return math.Inf(1)
	}
	if len(g.Points) == 1 {
		return PointGeometry{Point: g.Points[0]}.DistanceTo(q, mLng, mLat)
	}
	min := math.Inf(1)
	for i := 1; i < len(g.Points); i++ {
		d := segmentDistance(q, g.Points[i-1], g.Points[i], mLng, mLat)
		if d < min {
			min = d
		}
	}
	return min
}

// PolygonGeometry is a polygon as a list of rings; the first ring is the
// exterior, any further rings are holes.
type PolygonGeometry struct {
	Rings [][]Point
}

func (g PolygonGeometry) DistanceTo(q Point, mLng, mLat float64) float64 {
	if len(g.Rings) == 0 {
		return math.Inf(1)
	}
	if ringContains(g.Rings[0], q) {
		inHole := false
		for _, hole := range g.Rings[1:] {
			if ringContains(hole, q) {
				inHole = true
				break
			}
		}
		if !inHole {
			return 0
		}
	}
	min := math.Inf(1)
	for _, ring := range g.Rings {
		n := len(ring)
		for i := 0; i < n; i++ {
			d := segmentDistance(q, ring[i], ring[(i+1)%n], mLng, mLat)
			if d < min {
				min = d
			}
		}
	}
	return min
}

// MinDistance returns the minimum distance from q over a multi-geometry.
func MinDistance(geoms []Geometry, q Point, mLng, mLat float64) float64 {
	min := math.Inf(1)
	for _, g := range geoms {
		if d := g.DistanceTo(q, mLng, mLat); d < min {
			min = d
		}
	}
	return min
}

// segmentDistance is the scaled-plane distance from q to segment ab.
func segmentDistance(q, a, b Point, mLng, mLat float64) float64 {
	ax, ay := a.Lng*mLng, a.Lat*mLat
	bx, by := b.Lng*mLng, b.Lat*mLat
	qx, qy := q.Lng*mLng, q.Lat*mLat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(qx-ax, qy-ay)
	}
	t := ((qx-ax)*dx + (qy-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(qx-(ax+t*dx), qy-(ay+t*dy))
}

// ringContains runs an even-odd crossing test in raw degree space.
func ringContains(ring []Point, q Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi.Lat > q.Lat) != (pj.Lat > q.Lat) &&
			q.Lng < (pj.Lng-pi.Lng)*(q.Lat-pi.Lat)/(pj.Lat-pi.Lat)+pi.Lng {
			inside = !inside
		}
	}
	return inside
}
