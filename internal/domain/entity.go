package domain

// EntityID identifies a match within one database. The low 32 bits carry the
// store row id; the high 32 bits carry a 1-based interpolation index, or zero
// for entities stored directly. The packing lets the address cache tell
// synthetic house-number sub-addresses of one row apart without a second key
// dimension.
type EntityID uint64

// DirectID builds the id of a directly stored entity.
func DirectID(row uint32) EntityID {
	return EntityID(row)
}

// InterpolatedID builds the id of the index-th interpolated house number
// (1-based) of the given row.
func InterpolatedID(row uint32, index uint32) EntityID {
	return EntityID(uint64(index)<<32 | uint64(row))
}

// Row returns the store row id part.
func (id EntityID) Row() uint32 {
	return uint32(id)
}

// Index returns the 1-based interpolation index, or zero for direct entities.
func (id EntityID) Index() uint32 {
	return uint32(id >> 32)
}

// IsInterpolated reports whether the id names an interpolated sub-address.
func (id EntityID) IsInterpolated() bool {
	return id.Index() != 0
}

// GeometryInfo is a decoded-but-not-yet-ranked match: an entity id plus its
// geometry translated into caller space.
type GeometryInfo struct {
	ID       EntityID
	Geometry []Geometry
}
