// Package index collects editor-facing facts from an analysis: highlighting
// classes, declarations, call context and dot receivers around a cursor.
// Facts can be persisted in a SQLite database for go-to-definition.
package index
