package repository

import "strings"

// isUniqueViolation, reports a SQLite UNIQUE constraint failure.
// modernc.org/sqlite formats these as "constraint failed: UNIQUE constraint failed: t.col (2067)".
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// rowScanner, *sql.Row and *sql.Rows both satisfy it.
type rowScanner interface {
	Scan(dest ...any) error
}
