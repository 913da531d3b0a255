// Package interpolator expands a compact house-number specification into one
// synthetic address point per house number, spaced evenly along the street
// geometry.
//
// The specification grammar is a comma-separated list of terms; a term is a
// single number ("7") or an inclusive range "start:step:end" ("2:2:10").
// Ranges may run downward when start > end; step is always positive.
package interpolator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/geoforge/revgeo/internal/domain"
)

// Entry is one interpolated house number: its label and its point on the
// street. The caller assigns the 1-based interpolation index from the slice
// position.
type Entry struct {
	Label    string
	Geometry domain.Geometry
}

// Enumerate expands spec along the given street geometry. The street must
// carry at least one point or line geometry to anchor the generated points.
func Enumerate(spec string, street []domain.Geometry) ([]Entry, error) {
	numbers, err := parseSpec(spec)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		return nil, nil
	}

	entries := make([]Entry, len(numbers))
	for i, num := range numbers {
		frac := 0.5
		if len(numbers) > 1 {
			frac = float64(i) / float64(len(numbers)-1)
		}
		p, ok := pointAlong(street, frac)
		if !ok {
			return nil, fmt.Errorf("%w: street geometry has no anchor points", domain.ErrBadHouseNumbers)
		}
		entries[i] = Entry{
			Label:    strconv.Itoa(num),
			Geometry: domain.PointGeometry{Point: p},
		}
	}
	return entries, nil
}

func parseSpec(spec string) ([]int, error) {
	var numbers []int
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, fmt.Errorf("%w: empty term in %q", domain.ErrBadHouseNumbers, spec)
		}
		if !strings.Contains(term, ":") {
			n, err := strconv.Atoi(term)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", domain.ErrBadHouseNumbers, term)
			}
			numbers = append(numbers, n)
			continue
		}
		parts := strings.Split(term, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: range %q needs start:step:end", domain.ErrBadHouseNumbers, term)
		}
		start, err1 := strconv.Atoi(parts[0])
		step, err2 := strconv.Atoi(parts[1])
		end, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || step <= 0 {
			return nil, fmt.Errorf("%w: range %q", domain.ErrBadHouseNumbers, term)
		}
		if start <= end {
			for n := start; n <= end; n += step {
				numbers = append(numbers, n)
			}
		} else {
			for n := start; n >= end; n -= step {
				numbers = append(numbers, n)
			}
		}
	}
	return numbers, nil
}

// pointAlong returns the point at the given fraction of the street's total
// polyline length. A lone point geometry anchors every fraction at itself.
func pointAlong(street []domain.Geometry, frac float64) (domain.Point, bool) {
	for _, g := range street {
		switch s := g.(type) {
		case domain.LineGeometry:
			if p, ok := lineAt(s.Points, frac); ok {
				return p, true
			}
		case domain.PointGeometry:
			return s.Point, true
		}
	}
	return domain.Point{}, false
}

func lineAt(pts []domain.Point, frac float64) (domain.Point, bool) {
	if len(pts) == 0 {
		return domain.Point{}, false
	}
	if len(pts) == 1 {
		return pts[0], true
	}
	total := 0.0
	segs := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		d := math.Hypot(pts[i].Lng-pts[i-1].Lng, pts[i].Lat-pts[i-1].Lat)
		segs[i-1] = d
		total += d
	}
	if total == 0 {
		return pts[0], true
	}
	target := frac * total
	for i, d := range segs {
		if d == 0 {
			continue
		}
		if target <= d || i == len(segs)-1 {
			t := target / d
			if t > 1 {
				t = 1
			}
			a, b := pts[i], pts[i+1]
			return domain.Point{
				Lng: a.Lng + (b.Lng-a.Lng)*t,
				Lat: a.Lat + (b.Lat-a.Lat)*t,
			}, true
		}
		target -= d
	}
	return pts[len(pts)-1], true
}
