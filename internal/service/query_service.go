package service

import (
	"context"
	"fmt"
	"strings"

	"discussx/internal/models"
	"discussx/internal/projector"
	"discussx/internal/query"
	"discussx/internal/repository"
)

const (
	DefaultPreviewLimit = 10
	MaxPreviewLimit     = 1000
)

// QueryService backs the SQL dashboard. Raw statements pass to the executor
// verbatim; preview and search only ever format identifiers that came from
// the introspected schema.
type QueryService interface {
	Execute(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value) (query.Result, error)
	View(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value, view projector.View) (projector.Table, query.Result, error)
	Schema(ctx context.Context, actor *models.AuthenticatedUser, includeSystem bool) ([]models.SchemaTable, error)
	CountTables(ctx context.Context) (int, error)
	PreviewTable(ctx context.Context, actor *models.AuthenticatedUser, table string, limit int) (query.Result, error)
	SearchTable(ctx context.Context, actor *models.AuthenticatedUser, table, term string, limit int) (query.Result, error)
	TestConnection(ctx context.Context) error
}

type queryService struct {
	exec   query.Executor
	schema repository.SchemaIntrospector
}

func NewQueryService(exec query.Executor, schema repository.SchemaIntrospector) QueryService {
	return &queryService{exec: exec, schema: schema}
}

func (s *queryService) Execute(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value) (query.Result, error) {
	if err := requireActor(actor, "run queries"); err != nil {
		return query.Result{}, err
	}

	if strings.TrimSpace(statement) == "" {
		return query.Result{}, &repository.ValidationError{Field: "statement", Message: "must not be empty"}
	}
	for i, param := range params {
		if param.Kind() == query.KindObject {
			return query.Result{}, &repository.ValidationError{
				Field:   fmt.Sprintf("parameters[%d]", i),
				Message: "must be a scalar",
			}
		}
	}

	args := make([]any, len(params))
	for i, param := range params {
		args[i] = param
	}

	return s.exec.Execute(ctx, statement, args...), nil
}

func (s *queryService) View(ctx context.Context, actor *models.AuthenticatedUser, statement string, params []query.Value, view projector.View) (projector.Table, query.Result, error) {
	result, err := s.Execute(ctx, actor, statement, params)
	if err != nil || !result.Success {
		return projector.Table{}, result, err
	}

	return projector.Project(result.Columns, result.Rows, view), result, nil
}

func (s *queryService) Schema(ctx context.Context, actor *models.AuthenticatedUser, includeSystem bool) ([]models.SchemaTable, error) {
	if err := requireActor(actor, "inspect the schema"); err != nil {
		return nil, err
	}

	tables, err := s.schema.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if includeSystem {
		return tables, nil
	}

	application := make([]models.SchemaTable, 0, len(tables))
	for _, table := range tables {
		if !table.System {
			application = append(application, table)
		}
	}
	return application, nil
}

func (s *queryService) CountTables(ctx context.Context) (int, error) {
	return s.schema.CountTables(ctx)
}

func (s *queryService) PreviewTable(ctx context.Context, actor *models.AuthenticatedUser, table string, limit int) (query.Result, error) {
	if err := requireActor(actor, "preview tables"); err != nil {
		return query.Result{}, err
	}

	described, err := s.findTable(ctx, table)
	if err != nil {
		return query.Result{}, err
	}

	statement := s.exec.Rebind(`SELECT * FROM ` + quoteTable(described) + ` LIMIT ?`)
	return s.exec.Execute(ctx, statement, clampLimit(limit)), nil
}

// SearchTable matches term case-insensitively against the text form of
// every column. The term travels as a bound parameter with LIKE wildcards
// escaped.
func (s *queryService) SearchTable(ctx context.Context, actor *models.AuthenticatedUser, table, term string, limit int) (query.Result, error) {
	if err := requireActor(actor, "search tables"); err != nil {
		return query.Result{}, err
	}

	described, err := s.findTable(ctx, table)
	if err != nil {
		return query.Result{}, err
	}

	term = strings.TrimSpace(term)
	if term == "" || len(described.Columns) == 0 {
		return s.PreviewTable(ctx, actor, table, limit)
	}

	pattern := "%" + strings.ToLower(query.EscapeLike(term)) + "%"

	conditions := make([]string, 0, len(described.Columns))
	params := make([]any, 0, len(described.Columns)+1)
	for _, column := range described.Columns {
		conditions = append(conditions, `LOWER(CAST(`+query.QuoteIdentifier(column.Name)+` AS TEXT)) LIKE ? ESCAPE '\'`)
		params = append(params, pattern)
	}
	params = append(params, clampLimit(limit))

	statement := `SELECT * FROM ` + quoteTable(described) +
		` WHERE ` + strings.Join(conditions, " OR ") +
		` LIMIT ?`

	return s.exec.Execute(ctx, s.exec.Rebind(statement), params...), nil
}

func (s *queryService) TestConnection(ctx context.Context) error {
	result := s.exec.Execute(ctx, "SELECT 1 AS ok")
	if !result.Success {
		return &repository.StoreError{Message: result.Message}
	}
	return nil
}

// findTable resolves a user-supplied name, plain or schema-qualified,
// against the introspected tables.
func (s *queryService) findTable(ctx context.Context, name string) (models.SchemaTable, error) {
	tables, err := s.schema.ListTables(ctx)
	if err != nil {
		return models.SchemaTable{}, err
	}

	for _, table := range tables {
		if table.QualifiedName() == name {
			return table, nil
		}
	}
	for _, table := range tables {
		if table.Name == name && !table.System {
			return table, nil
		}
	}

	return models.SchemaTable{}, fmt.Errorf("%w: %s", ErrTableNotFound, name)
}

func quoteTable(table models.SchemaTable) string {
	return query.QuoteIdentifier(table.Schema, table.Name)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPreviewLimit
	case limit > MaxPreviewLimit:
		return MaxPreviewLimit
	default:
		return limit
	}
}
