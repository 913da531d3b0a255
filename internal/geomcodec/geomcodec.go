// Package geomcodec encodes and decodes the binary geometry blobs stored in
// the entities table. Coordinates are quantized to 1e-6 degrees and written
// as zigzag-encoded deltas from the previous coordinate, with the delta state
// running across the whole blob.
//
// Blob layout: uvarint feature count, then per feature a uvarint geometry
// tag (none, point, line, polygon) followed by the coordinate payload.
package geomcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/geoforge/revgeo/internal/domain"
)

// quantScale converts degrees to integer storage units.
const quantScale = 1e6

const (
	tagNone    = 0
	tagPoint   = 1
	tagLine    = 2
	tagPolygon = 3
)

// Feature is one entry of a decoded feature collection. Geometry is nil for
// features written without one.
type Feature struct {
	Geometry domain.Geometry
}

// Decode parses a geometry blob. Every decoded coordinate is passed through
// conv, which translates local-planar offsets into caller space. A
// structurally invalid blob yields an error wrapping domain.ErrCorruptGeometry.
func Decode(blob []byte, conv domain.PointConverter) ([]Feature, error) {
	s := &stream{buf: blob}

	count, err := s.uvarint("feature count")
	if err != nil {
		return nil, err
	}
	if count > uint64(len(blob)) {
		return nil, corrupt("feature count %d exceeds blob size", count)
	}

	features := make([]Feature, 0, count)
	for i := uint64(0); i < count; i++ {
		tag, err := s.uvarint("geometry tag")
		if err != nil {
			return nil, err
		}
		var geom domain.Geometry
		switch tag {
		case tagNone:
		case tagPoint:
			p, err := s.point(conv)
			if err != nil {
				return nil, err
			}
			geom = domain.PointGeometry{Point: p}
		case tagLine:
			pts, err := s.points(conv)
			if err != nil {
				return nil, err
			}
			geom = domain.LineGeometry{Points: pts}
		case tagPolygon:
			rings, err := s.uvarint("ring count")
			if err != nil {
				return nil, err
			}
			if rings > uint64(len(blob)) {
				return nil, corrupt("ring count %d exceeds blob size", rings)
			}
			poly := domain.PolygonGeometry{Rings: make([][]domain.Point, 0, rings)}
			for r := uint64(0); r < rings; r++ {
				pts, err := s.points(conv)
				if err != nil {
					return nil, err
				}
				poly.Rings = append(poly.Rings, pts)
			}
			geom = poly
		default:
			return nil, corrupt("unknown geometry tag %d", tag)
		}
		features = append(features, Feature{Geometry: geom})
	}
	return features, nil
}

// Geometries extracts the non-nil geometries of a feature collection.
func Geometries(features []Feature) []domain.Geometry {
	var geoms []domain.Geometry
	for _, f := range features {
		if f.Geometry != nil {
			geoms = append(geoms, f.Geometry)
		}
	}
	return geoms
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrCorruptGeometry, fmt.Sprintf(format, args...))
}

// stream reads varints and delta-encoded coordinates from a blob.
type stream struct {
	buf   []byte
	pos   int
	prevX int64
	prevY int64
}

func (s *stream) uvarint(what string) (uint64, error) {
	v, n := binary.Uvarint(s.buf[s.pos:])
	if n <= 0 {
		return 0, corrupt("truncated %s at offset %d", what, s.pos)
	}
	s.pos += n
	return v, nil
}

func (s *stream) varint(what string) (int64, error) {
	v, n := binary.Varint(s.buf[s.pos:])
	if n <= 0 {
		return 0, corrupt("truncated %s at offset %d", what, s.pos)
	}
	s.pos += n
	return v, nil
}

func (s *stream) point(conv domain.PointConverter) (domain.Point, error) {
	dx, err := s.varint("coordinate")
	if err != nil {
		return domain.Point{}, err
	}
	dy, err := s.varint("coordinate")
	if err != nil {
		return domain.Point{}, err
	}
	s.prevX += dx
	s.prevY += dy
	p := domain.Point{
		Lng: float64(s.prevX) / quantScale,
		Lat: float64(s.prevY) / quantScale,
	}
	if conv != nil {
		p = conv(p)
	}
	return p, nil
}

func (s *stream) points(conv domain.PointConverter) ([]domain.Point, error) {
	n, err := s.uvarint("point count")
	if err != nil {
		return nil, err
	}
	// Two varints per point, at least one byte each.
	if n > uint64(len(s.buf)-s.pos)/2+1 {
		return nil, corrupt("point count %d exceeds blob size", n)
	}
	pts := make([]domain.Point, 0, n)
	for i := uint64(0); i < n; i++ {
		p, err := s.point(conv)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}
