// Package revgeo is an offline reverse-geocoding engine: given a geographic
// point it returns ranked postal addresses drawn from one or more pre-built,
// read-only spatial databases, each covering a bounded region encoded in a
// local planar coordinate system.
//
// Databases are registered with Import and queried with FindAddresses. A
// query prefilters databases by bounding envelope, drives a quad-cell
// spatial index over the survivors, decodes candidate geometry on demand,
// interpolates house-number ranges into synthetic addresses, and ranks
// matches by linear distance decay inside the configured radius. Address and
// geometry-info results are cached per database.
//
// A Geocoder is fully serialized: one lock guards configuration, caches and
// the database list, so concurrent callers are safe but execute one logical
// operation at a time.
package revgeo
