package domain

import (
	"math"
	"testing"
)

// unit scales: one degree equals one meter on both axes, so expected
// distances can be read straight off the coordinates.
const unitScale = 1.0

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPointDistance(t *testing.T) {
	g := PointGeometry{Point: Point{Lng: 3, Lat: 4}}
	if d := g.DistanceTo(Point{}, unitScale, unitScale); !almostEqual(d, 5, 1e-9) {
		t.Errorf("distance = %v, want 5", d)
	}
}

func TestPointDistanceAnisotropic(t *testing.T) {
	// Longitude shrunk to half scale: (2,0) measures as 1 meter.
	g := PointGeometry{Point: Point{Lng: 2, Lat: 0}}
	if d := g.DistanceTo(Point{}, 0.5, 1); !almostEqual(d, 1, 1e-9) {
		t.Errorf("distance = %v, want 1", d)
	}
}

func TestLineDistance(t *testing.T) {
	g := LineGeometry{Points: []Point{{Lng: -1, Lat: 1}, {Lng: 1, Lat: 1}}}

	// Perpendicular projection onto the middle of the segment.
	if d := g.DistanceTo(Point{}, unitScale, unitScale); !almostEqual(d, 1, 1e-9) {
		t.Errorf("perpendicular distance = %v, want 1", d)
	}
	// Beyond the endpoint: distance to the endpoint itself.
	if d := g.DistanceTo(Point{Lng: 2, Lat: 1}, unitScale, unitScale); !almostEqual(d, 1, 1e-9) {
		t.Errorf("endpoint distance = %v, want 1", d)
	}
	// Degenerate cases.
	if d := (LineGeometry{}).DistanceTo(Point{}, unitScale, unitScale); !math.IsInf(d, 1) {
		t.Errorf("empty line distance = %v, want +Inf", d)
	}
	single := LineGeometry{Points: []Point{{Lng: 0, Lat: 2}}}
	if d := single.DistanceTo(Point{}, unitScale, unitScale); !almostEqual(d, 2, 1e-9) {
		t.Errorf("single point line distance = %v, want 2", d)
	}
}

func TestPolygonDistance(t *testing.T) {
	square := PolygonGeometry{Rings: [][]Point{{
		{Lng: -1, Lat: -1}, {Lng: 1, Lat: -1}, {Lng: 1, Lat: 1}, {Lng: -1, Lat: 1},
	}}}

	if d := square.DistanceTo(Point{}, unitScale, unitScale); d != 0 {
		t.Errorf("inside distance = %v, want 0", d)
	}
	if d := square.DistanceTo(Point{Lng: 3, Lat: 0}, unitScale, unitScale); !almostEqual(d, 2, 1e-9) {
		t.Errorf("outside distance = %v, want 2", d)
	}
}

func TestPolygonHole(t *testing.T) {
	donut := PolygonGeometry{Rings: [][]Point{
		{{Lng: -4, Lat: -4}, {Lng: 4, Lat: -4}, {Lng: 4, Lat: 4}, {Lng: -4, Lat: 4}},
		{{Lng: -1, Lat: -1}, {Lng: 1, Lat: -1}, {Lng: 1, Lat: 1}, {Lng: -1, Lat: 1}},
	}}

	// Center of the hole: nearest edge of the hole ring is 1 away.
	if d := donut.DistanceTo(Point{}, unitScale, unitScale); !almostEqual(d, 1, 1e-9) {
		t.Errorf("hole distance = %v, want 1", d)
	}
	// In the ring body.
	if d := donut.DistanceTo(Point{Lng: 2.5, Lat: 0}, unitScale, unitScale); d != 0 {
		t.Errorf("body distance = %v, want 0", d)
	}
}

func TestMinDistance(t *testing.T) {
	geoms := []Geometry{
		PointGeometry{Point: Point{Lng: 0, Lat: 5}},
		PointGeometry{Point: Point{Lng: 0, Lat: 2}},
	}
	if d := MinDistance(geoms, Point{}, unitScale, unitScale); !almostEqual(d, 2, 1e-9) {
		t.Errorf("MinDistance = %v, want 2", d)
	}
	if d := MinDistance(nil, Point{}, unitScale, unitScale); !math.IsInf(d, 1) {
		t.Errorf("MinDistance(nil) = %v, want +Inf", d)
	}
}

func TestBoundsNearestPoint(t *testing.T) {
	b := Bounds{Min: Point{Lng: -1, Lat: -2}, Max: Point{Lng: 3, Lat: 4}}
	for _, tc := range []struct {
		q, want Point
	}{
		{Point{Lng: 0, Lat: 0}, Point{Lng: 0, Lat: 0}},     // inside
		{Point{Lng: 10, Lat: 0}, Point{Lng: 3, Lat: 0}},    // east
		{Point{Lng: -5, Lat: 10}, Point{Lng: -1, Lat: 4}},  // corner
		{Point{Lng: 1, Lat: -9}, Point{Lng: 1, Lat: -2}},   // south
	} {
		if got := b.NearestPoint(tc.q); got != tc.want {
			t.Errorf("NearestPoint(%v) = %v, want %v", tc.q, got, tc.want)
		}
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Min: Point{Lng: -1, Lat: -1}, Max: Point{Lng: 1, Lat: 1}}
	if !b.Contains(Point{}) || !b.Contains(Point{Lng: 1, Lat: 1}) {
		t.Error("interior or border point reported outside")
	}
	if b.Contains(Point{Lng: 1.01, Lat: 0}) {
		t.Error("exterior point reported inside")
	}
}
