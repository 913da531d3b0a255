// Package sqlite implements the revgeo store contract over a pre-built
// SQLite geocoding database using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	revgeo "github.com/geoforge/revgeo"
)

// Store is a read-only SQLite-backed geocoding store.
type Store struct {
	conn *sql.DB
}

// Open opens the database file at path. The schema is assumed to be the
// pre-built geocoding layout (metadata, entities, names).
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &Store{conn: conn}, nil
}

// New wraps an already-open connection. The caller keeps ownership.
func New(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// Close releases the underlying connection. Only meaningful for stores
// created with Open.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Metadata implements revgeo.Store.
func (s *Store) Metadata(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, "SELECT value FROM metadata WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &revgeo.StoreError{Op: revgeo.OpMetadata, Err: err}
	}
	return value, true, nil
}

// QueryEntities implements revgeo.Store.
func (s *Store) QueryEntities(ctx context.Context, query string) ([]revgeo.EntityRow, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, &revgeo.StoreError{Op: revgeo.OpEntities, Err: err}
	}
	defer rows.Close()

	var result []revgeo.EntityRow
	for rows.Next() {
		var row revgeo.EntityRow
		var houseNumbers sql.NullString
		if err := rows.Scan(&row.ID, &row.Features, &houseNumbers); err != nil {
			return nil, &revgeo.StoreError{Op: revgeo.OpEntities, Err: err}
		}
		row.HouseNumbers = houseNumbers.String
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &revgeo.StoreError{Op: revgeo.OpEntities, Err: err}
	}
	return result, nil
}

// Address implements revgeo.Store. Text fields come from the entity row with
// any per-language overrides from the names table applied on top.
func (s *Store) Address(ctx context.Context, rowID uint32, lang string) (revgeo.AddressRow, bool, error) {
	const query = `SELECT id, type, country, region, county, locality,
		neighbourhood, street, postcode, name, features, housenumbers
		FROM entities WHERE id = ?`

	var row revgeo.AddressRow
	var houseNumbers sql.NullString
	err := s.conn.QueryRowContext(ctx, query, rowID).Scan(
		&row.ID, &row.Type, &row.Country, &row.Region, &row.County,
		&row.Locality, &row.Neighbourhood, &row.Street, &row.Postcode,
		&row.Name, &row.Features, &houseNumbers,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return revgeo.AddressRow{}, false, nil
	}
	if err != nil {
		return revgeo.AddressRow{}, false, &revgeo.StoreError{Op: revgeo.OpAddress, Err: err}
	}
	row.HouseNumbers = houseNumbers.String

	if lang != "" {
		if err := s.applyNames(ctx, &row, lang); err != nil {
			return revgeo.AddressRow{}, false, err
		}
	}
	return row, true, nil
}

func (s *Store) applyNames(ctx context.Context, row *revgeo.AddressRow, lang string) error {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT field, value FROM names WHERE entity_id = ? AND lang = ?", row.ID, lang)
	if err != nil {
		return &revgeo.StoreError{Op: revgeo.OpAddress, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return &revgeo.StoreError{Op: revgeo.OpAddress, Err: err}
		}
		switch field {
		case "country":
			row.Country = value
		case "region":
			row.Region = value
		case "county":
			row.County = value
		case "locality":
			row.Locality = value
		case "neighbourhood":
			row.Neighbourhood = value
		case "street":
			row.Street = value
		case "postcode":
			row.Postcode = value
		case "name":
			row.Name = value
		}
	}
	if err := rows.Err(); err != nil {
		return &revgeo.StoreError{Op: revgeo.OpAddress, Err: err}
	}
	return nil
}
