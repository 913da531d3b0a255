package domain

import "errors"

var (
	// ErrMalformedMetadata signals unusable origin/bounds metadata during import.
	ErrMalformedMetadata = errors.New("malformed store metadata")
	// ErrCorruptGeometry signals a structurally invalid geometry blob.
	ErrCorruptGeometry = errors.New("corrupt geometry blob")
	// ErrBadHouseNumbers signals an unparseable house-number specification.
	ErrBadHouseNumbers = errors.New("bad house number specification")
	// ErrInvalidCoordinates signals an out-of-range longitude/latitude pair.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
