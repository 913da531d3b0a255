package revgeo

import "github.com/geoforge/revgeo/internal/domain"

// Address is a resolved reverse-geocoding result.
type Address = domain.Address

// AddressType classifies an address by its most specific component.
type AddressType = domain.Type

// Address type values, matching the entities table's type column.
const (
	TypeCountry       = domain.TypeCountry
	TypeRegion        = domain.TypeRegion
	TypeCounty        = domain.TypeCounty
	TypeLocality      = domain.TypeLocality
	TypeNeighbourhood = domain.TypeNeighbourhood
	TypeStreet        = domain.TypeStreet
	TypePostcode      = domain.TypePostcode
	TypeHouseNumber   = domain.TypeHouseNumber
	TypePOI           = domain.TypePOI
)

// Result is one ranked address. Rank decays linearly from 1 at the query
// point to 0 at the search radius; only positive ranks are returned.
type Result struct {
	Address Address
	Rank    float64
}
