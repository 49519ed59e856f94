/*
Package feed holds the parsed GTFS tables for one analysis session.

A Store is built once from a table provider (typically a GTFS zip) and is
read-only afterwards, so it can be shared across concurrent queries. Tables
keep every field as text; callers cast fields at the point of use so that
numeric-looking identifiers never lose leading zeros.

Construction fails with *MissingTableError when any required table is absent.
Optional tables (calendar_dates, shapes, frequencies) are discovered through
Store.Has rather than errors.
*/
package feed
