package domain

// Bounds is an axis-aligned bounding box in geographic coordinates.
// No ±180° wraparound correction is applied; envelopes crossing the
// antimeridian are not handled.
type Bounds struct {
	Min Point
	Max Point
}

// NearestPoint returns the point of the box closest to q (q itself when q is
// inside the box).
func (b Bounds) NearestPoint(q Point) Point {
	p := q
	if p.Lng < b.Min.Lng {
		p.Lng = b.Min.Lng
	} else if p.Lng > b.Max.Lng {
		p.Lng = b.Max.Lng
	}
	if p.Lat < b.Min.Lat {
		p.Lat = b.Min.Lat
	} else if p.Lat > b.Max.Lat {
		p.Lat = b.Max.Lat
	}
	return p
}

// Contains reports whether q lies inside the box (borders inclusive).
func (b Bounds) Contains(q Point) bool {
	return q.Lng >= b.Min.Lng && q.Lng <= b.Max.Lng &&
		q.Lat >= b.Min.Lat && q.Lat <= b.Max.Lat
}
