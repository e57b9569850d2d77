package sqlite

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintCode returns the extended result code of a constraint failure.
func constraintCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	code := se.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0, false
	}
	return code, true
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	code, ok := constraintCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(err.Error(), "UNIQUE constraint")
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure.
func isForeignKeyViolation(err error) bool {
	code, ok := constraintCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(err.Error(), "FOREIGN KEY constraint")
}
