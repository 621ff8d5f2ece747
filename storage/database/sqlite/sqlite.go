// Package sqliterepos implements the core repositories on sqlite.
package sqliterepos

import (
	sqlite3 "github.com/mattn/go-sqlite3"
)

func isUniqueViolation(err error) bool {
	if serr, ok := err.(sqlite3.Error); ok {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isFKViolation(err error) bool {
	if serr, ok := err.(sqlite3.Error); ok {
		return serr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
