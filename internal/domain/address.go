package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Type classifies an address by the most specific component it resolves to.
// Values match the `type` column of the entities table.
type Type int

const (
	// TypeNone is the zero value; entities are never stored with it.
	TypeNone Type = iota
	// TypeCountry is a country-level entity.
	TypeCountry
	// TypeRegion is a first-level administrative division.
	TypeRegion
	// TypeCounty is a second-level administrative division.
	TypeCounty
	// TypeLocality is a city, town or village.
	TypeLocality
	// TypeNeighbourhood is a named part of a locality.
	TypeNeighbourhood
	// TypeStreet is a named street.
	TypeStreet
	// TypePostcode is a postal code area.
	TypePostcode
	// TypeHouseNumber is an interpolated house-number point on a street.
	TypeHouseNumber
	// TypePOI is a named point of interest.
	TypePOI
)

var typeNames = map[Type]string{
	TypeNone:          "none",
	TypeCountry:       "country",
	TypeRegion:        "region",
	TypeCounty:        "county",
	TypeLocality:      "locality",
	TypeNeighbourhood: "neighbourhood",
	TypeStreet:        "street",
	TypePostcode:      "postcode",
	TypeHouseNumber:   "housenumber",
	TypePOI:           "poi",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// BuildTypeFilter renders the enabled-type set as a SQL fragment of the form
// "type IN (1,6)". Types are emitted in ascending order so that the fragment
// is deterministic and usable as part of a cache key. Empty input yields "".
func BuildTypeFilter(types []Type) string {
	if len(types) == 0 {
		return ""
	}
	codes := make([]int, len(types))
	for i, t := range types {
		codes[i] = int(t)
	}
	sort.Ints(codes)

	var b strings.Builder
	b.WriteString("type IN (")
	for i, c := range codes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteByte(')')
	return b.String()
}

// Address is a resolved, user-facing reverse-geocoding result. Text fields
// are in the language the engine was configured with at resolution time.
type Address struct {
	Type          Type
	Country       string
	Region        string
	County        string
	Locality      string
	Neighbourhood string
	Street        string
	Postcode      string
	HouseNumber   string
	Name          string
	Geometry      []Geometry
}
