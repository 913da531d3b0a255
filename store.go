package revgeo

import "context"

// EntityRow is one row of the entities table as returned for a spatial
// probe. HouseNumbers is empty when the column is NULL.
type EntityRow struct {
	ID           uint32
	Features     []byte
	HouseNumbers string
}

// AddressRow is the full entity row used to assemble an Address. Text fields
// are already resolved for the requested language.
type AddressRow struct {
	ID            uint32
	Type          int
	Country       string
	Region        string
	County        string
	Locality      string
	Neighbourhood string
	Street        string
	Postcode      string
	Name          string
	Features      []byte
	HouseNumbers  string
}

// Store is the read-only contract a pre-built geocoding database must
// satisfy. Stores are externally owned and shared: the geocoder never writes
// to or closes them, and a store may be registered with several geocoders.
type Store interface {
	// Metadata looks up a single metadata value by name. ok is false when
	// the key is absent.
	Metadata(ctx context.Context, name string) (value string, ok bool, err error)

	// QueryEntities executes an entity query produced by the engine's
	// signature builder, selecting id, features, housenumbers. The query
	// text doubles as the geometry-info cache signature, so identical probes
	// always arrive as byte-identical query strings.
	QueryEntities(ctx context.Context, query string) ([]EntityRow, error)

	// Address loads one entity row with text fields resolved for lang,
	// falling back to the default-language columns. ok is false when the
	// row does not exist.
	Address(ctx context.Context, rowID uint32, lang string) (AddressRow, bool, error)
}

// Store operation names used in error context.
const (
	OpMetadata = "metadata"
	OpEntities = "entities"
	OpAddress  = "address"
)

// StoreError wraps an underlying driver error with the operation name.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }
