package geomcodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/geoforge/revgeo/internal/domain"
)

// Encode serializes a feature collection into the blob format Decode reads.
// Coordinates are expected in the database-local frame (origin already
// subtracted). Used by database builders and test fixtures.
func Encode(features []Feature) ([]byte, error) {
	e := &encoder{}
	e.putUvarint(uint64(len(features)))
	for i, f := range features {
		switch g := f.Geometry.(type) {
		case nil:
			e.putUvarint(tagNone)
		case domain.PointGeometry:
			e.putUvarint(tagPoint)
			e.putPoint(g.Point)
		case domain.LineGeometry:
			e.putUvarint(tagLine)
			e.putPoints(g.Points)
		case domain.PolygonGeometry:
			e.putUvarint(tagPolygon)
			e.putUvarint(uint64(len(g.Rings)))
			for _, ring := range g.Rings {
				e.putPoints(ring)
			}
		default:
			return nil, fmt.Errorf("encode feature %d: unsupported geometry %T", i, f.Geometry)
		}
	}
	return e.buf, nil
}

type encoder struct {
	buf   []byte
	prevX int64
	prevY int64
}

func (e *encoder) putUvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) putPoint(p domain.Point) {
	x := int64(math.Round(p.Lng * quantScale))
	y := int64(math.Round(p.Lat * quantScale))
	e.buf = binary.AppendVarint(e.buf, x-e.prevX)
	e.buf = binary.AppendVarint(e.buf, y-e.prevY)
	e.prevX, e.prevY = x, y
}

func (e *encoder) putPoints(pts []domain.Point) {
	e.putUvarint(uint64(len(pts)))
	for _, p := range pts {
		e.putPoint(p)
	}
}
