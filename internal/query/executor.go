// Package query sends statements to the store and returns uniform tabular
// results. It owns no domain knowledge: rows stay opaque until a repository
// maps them.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"discussx/internal/logger"

	"github.com/jmoiron/sqlx"
)

// Result is the outcome of one statement. A failed statement has Success
// false and the engine's message; it is never retried.
type Result struct {
	Success      bool     `json:"success"`
	Columns      []string `json:"columns"`
	Rows         []Row    `json:"rows"`
	RowsAffected int64    `json:"rowsAffected"`
	Message      string   `json:"message,omitempty"`
}

// Failure builds an unsuccessful result carrying message.
func Failure(message string) Result {
	return Result{Success: false, Columns: []string{}, Rows: []Row{}, Message: message}
}

// First returns the first row and whether there was one.
func (r Result) First() (Row, bool) {
	if len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[0], true
}

// Executor is the boundary every repository talks to.
type Executor interface {
	// Execute runs statement with positionally bound params. Statement text
	// is passed to the engine verbatim.
	Execute(ctx context.Context, statement string, params ...any) Result
	// Rebind converts '?' placeholders to the driver's bind style.
	Rebind(statement string) string
	DriverName() string
	// WithTx runs fn against an executor bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Executor) error) error
}

type SQLExecutor struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewExecutor(db *sqlx.DB) *SQLExecutor {
	return &SQLExecutor{db: db, ext: db}
}

var (
	rowKeywords = map[string]bool{
		"SELECT":   true,
		"WITH":     true,
		"SHOW":     true,
		"PRAGMA":   true,
		"EXPLAIN":  true,
		"VALUES":   true,
		"TABLE":    true,
		"DESCRIBE": true,
	}
	returningPattern = regexp.MustCompile(`(?i)\bRETURNING\b`)
	lineComment      = regexp.MustCompile(`^--[^\n]*\n?`)
	blockComment     = regexp.MustCompile(`^/\*(?s:.*?)\*/`)
)

// returnsRows decides between the query and exec paths from the leading
// keyword. It does not parse the statement.
func returnsRows(statement string) bool {
	if returningPattern.MatchString(unquoted(statement)) {
		return true
	}
	return rowKeywords[leadingKeyword(statement)]
}

// unquoted blanks out string literals and quoted identifiers. A doubled
// quote inside a literal reads as an empty literal next to its neighbour,
// which blanks the same text.
func unquoted(statement string) string {
	var b strings.Builder
	b.Grow(len(statement))

	var quote byte
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b.WriteByte(' ')
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func leadingKeyword(statement string) string {
	rest := statement
	for {
		rest = strings.TrimLeft(rest, " \t\r\n(")
		switch {
		case strings.HasPrefix(rest, "--"):
			rest = lineComment.ReplaceAllString(rest, "")
			if strings.HasPrefix(rest, "--") {
				return ""
			}
		case strings.HasPrefix(rest, "/*"):
			stripped := blockComment.ReplaceAllString(rest, "")
			if stripped == rest {
				return ""
			}
			rest = stripped
		default:
			end := strings.IndexFunc(rest, func(r rune) bool {
				return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
			})
			if end < 0 {
				end = len(rest)
			}
			return strings.ToUpper(rest[:end])
		}
	}
}

func (e *SQLExecutor) Execute(ctx context.Context, statement string, params ...any) (result Result) {
	if strings.TrimSpace(statement) == "" {
		return Failure("statement is empty")
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("statement panicked: %v", r)
			result = Failure(fmt.Sprintf("statement failed: %v", r))
		}
	}()

	args := bindArgs(params)
	logger.Debugf("execute: %s %v", compact(statement), args)

	if returnsRows(statement) {
		return e.query(ctx, statement, args)
	}
	return e.exec(ctx, statement, args)
}

func (e *SQLExecutor) query(ctx context.Context, statement string, args []any) Result {
	rows, err := e.ext.QueryxContext(ctx, statement, args...)
	if err != nil {
		return Failure(err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Failure(err.Error())
	}

	databaseTypes := make([]string, len(columns))
	if columnTypes, err := rows.ColumnTypes(); err == nil {
		for i, columnType := range columnTypes {
			databaseTypes[i] = strings.ToUpper(columnType.DatabaseTypeName())
		}
	}

	result := Result{Success: true, Columns: columns, Rows: []Row{}}
	for rows.Next() {
		raw := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range raw {
			pointers[i] = &raw[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return Failure(err.Error())
		}

		values := make([]Value, len(columns))
		for i := range raw {
			values[i] = fromDriver(raw[i], databaseTypes[i])
		}
		result.Rows = append(result.Rows, NewRow(columns, values))
	}

	if err := rows.Err(); err != nil {
		return Failure(err.Error())
	}

	result.RowsAffected = int64(len(result.Rows))
	return result
}

func (e *SQLExecutor) exec(ctx context.Context, statement string, args []any) Result {
	res, err := e.ext.ExecContext(ctx, statement, args...)
	if err != nil {
		return Failure(err.Error())
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}

	return Result{Success: true, Columns: []string{}, Rows: []Row{}, RowsAffected: affected}
}

func (e *SQLExecutor) Rebind(statement string) string {
	return e.ext.Rebind(statement)
}

func (e *SQLExecutor) DriverName() string {
	return e.ext.DriverName()
}

func (e *SQLExecutor) WithTx(ctx context.Context, fn func(Executor) error) error {
	if e.db == nil {
		// already inside a transaction
		return fn(e)
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&SQLExecutor{ext: tx}); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			logger.Warningf("rollback failed: %v", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func bindArgs(params []any) []any {
	args := make([]any, len(params))
	for i, param := range params {
		if value, ok := param.(Value); ok {
			args[i] = value.Any()
			continue
		}
		args[i] = param
	}
	return args
}

func compact(statement string) string {
	return strings.Join(strings.Fields(statement), " ")
}
