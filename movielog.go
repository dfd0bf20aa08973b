// Package movielog provides a personal movie-log catalog generator and
// browser. It turns a directory of markdown reviews with YAML front matter
// into a single JSON catalog, and answers filter, sort and ranking queries
// against that catalog.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, yaml/, sqlite/, glamour/).
package movielog
