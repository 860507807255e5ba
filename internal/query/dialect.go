package query

import "strings"

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectOf maps a database/sql driver name to the SQL dialect it speaks.
func DialectOf(driverName string) Dialect {
	switch driverName {
	case "sqlite", "sqlite3":
		return DialectSQLite
	default:
		return DialectPostgres
	}
}

// QuoteIdentifier double-quotes each non-empty part and joins them with dots.
// Only identifiers go through here; values are always bound as parameters.
func QuoteIdentifier(parts ...string) string {
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(part, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, ".")
}

// EscapeLike escapes LIKE wildcards so term matches literally under ESCAPE '\'.
func EscapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
