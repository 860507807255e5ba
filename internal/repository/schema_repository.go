package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"discussx/internal/models"
	"discussx/internal/query"
)

type schemaRepository struct {
	exec query.Executor
}

func NewSchemaRepository(exec query.Executor) SchemaIntrospector {
	return &schemaRepository{exec: exec}
}

// ListTables describes every table and view the store exposes, catalog
// tables included and flagged as system. A failing catalog statement fails
// the whole call.
func (r *schemaRepository) ListTables(ctx context.Context) ([]models.SchemaTable, error) {
	if query.DialectOf(r.exec.DriverName()) == query.DialectSQLite {
		return r.listSQLite(ctx)
	}
	return r.listPostgres(ctx)
}

func (r *schemaRepository) CountTables(ctx context.Context) (int, error) {
	tables, err := r.ListTables(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, table := range tables {
		if !table.System && table.Type == "table" {
			count++
		}
	}
	return count, nil
}

func (r *schemaRepository) run(ctx context.Context, statement string, params ...any) ([]query.Row, error) {
	result := r.exec.Execute(ctx, statement, params...)
	if !result.Success {
		return nil, fmt.Errorf("failed to read schema: %w", storeError(result.Message))
	}
	return result.Rows, nil
}

const (
	pgTablesQuery = `
		SELECT table_schema, table_name, table_type
		FROM information_schema.tables
		ORDER BY table_schema, table_name
	`
	pgColumnsQuery = `
		SELECT table_schema, table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		ORDER BY table_schema, table_name, ordinal_position
	`
	pgConstraintsQuery = `
		SELECT tc.table_schema, tc.table_name, tc.constraint_type, kcu.column_name,
			ccu.table_name AS foreign_table, ccu.column_name AS foreign_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		LEFT JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_type = 'FOREIGN KEY'
			AND tc.constraint_name = ccu.constraint_name
			AND tc.constraint_schema = ccu.constraint_schema
		WHERE tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE', 'FOREIGN KEY')
	`
	pgIndexesQuery = `
		SELECT n.nspname AS table_schema, t.relname AS table_name, i.relname AS index_name,
			ix.indisprimary AS is_primary, ix.indisunique AS is_unique,
			string_agg(a.attname, ',' ORDER BY array_position(ix.indkey::int2[], a.attnum)) AS column_names
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		GROUP BY n.nspname, t.relname, i.relname, ix.indisprimary, ix.indisunique
		ORDER BY n.nspname, t.relname, i.relname
	`
)

func (r *schemaRepository) listPostgres(ctx context.Context) ([]models.SchemaTable, error) {
	tableRows, err := r.run(ctx, pgTablesQuery)
	if err != nil {
		return nil, err
	}
	columnRows, err := r.run(ctx, pgColumnsQuery)
	if err != nil {
		return nil, err
	}
	constraintRows, err := r.run(ctx, pgConstraintsQuery)
	if err != nil {
		return nil, err
	}
	indexRows, err := r.run(ctx, pgIndexesQuery)
	if err != nil {
		return nil, err
	}

	tables := make([]*models.SchemaTable, 0, len(tableRows))
	byName := make(map[string]*models.SchemaTable, len(tableRows))
	for _, row := range tableRows {
		schema := row.Get("table_schema").String()
		table := &models.SchemaTable{
			Name:    row.Get("table_name").String(),
			Schema:  schema,
			Type:    tableType(row.Get("table_type").String()),
			System:  isPostgresSystemSchema(schema),
			Columns: []models.SchemaColumn{},
			Indexes: []models.SchemaIndex{},
		}
		tables = append(tables, table)
		byName[table.QualifiedName()] = table
	}

	for _, row := range columnRows {
		table, ok := byName[row.Get("table_schema").String()+"."+row.Get("table_name").String()]
		if !ok {
			continue
		}
		table.Columns = append(table.Columns, models.SchemaColumn{
			Name:       row.Get("column_name").String(),
			Type:       row.Get("data_type").String(),
			IsNullable: strings.EqualFold(row.Get("is_nullable").String(), "YES"),
		})
	}

	for _, row := range constraintRows {
		table, ok := byName[row.Get("table_schema").String()+"."+row.Get("table_name").String()]
		if !ok {
			continue
		}
		column := findColumn(table, row.Get("column_name").String())
		if column == nil {
			continue
		}

		switch row.Get("constraint_type").String() {
		case "PRIMARY KEY":
			column.IsPrimary = true
		case "UNIQUE":
			column.IsUnique = true
		case "FOREIGN KEY":
			column.IsForeignKey = true
			column.References = reference(row.Get("foreign_table"), row.Get("foreign_column"))
		}
	}

	for _, row := range indexRows {
		table, ok := byName[row.Get("table_schema").String()+"."+row.Get("table_name").String()]
		if !ok {
			continue
		}
		table.Indexes = append(table.Indexes, models.SchemaIndex{
			Name:    row.Get("index_name").String(),
			Columns: strings.Split(row.Get("column_names").String(), ","),
			Type:    indexType(row.Get("is_primary").Bool(), row.Get("is_unique").Bool()),
		})
	}

	return flatten(tables), nil
}

func (r *schemaRepository) listSQLite(ctx context.Context) ([]models.SchemaTable, error) {
	tableRows, err := r.run(ctx, `SELECT name, type FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name`)
	if err != nil {
		return nil, err
	}

	tables := make([]*models.SchemaTable, 0, len(tableRows))
	for _, row := range tableRows {
		name := row.Get("name").String()
		table := &models.SchemaTable{
			Name:    name,
			Type:    row.Get("type").String(),
			System:  strings.HasPrefix(name, "sqlite_"),
			Columns: []models.SchemaColumn{},
			Indexes: []models.SchemaIndex{},
		}

		if err := r.describeSQLite(ctx, table); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return flatten(tables), nil
}

func (r *schemaRepository) describeSQLite(ctx context.Context, table *models.SchemaTable) error {
	columnRows, err := r.run(ctx, `SELECT name, type, "notnull" AS not_null, pk FROM pragma_table_info(?) ORDER BY cid`, table.Name)
	if err != nil {
		return err
	}

	var primary []string
	for _, row := range columnRows {
		column := models.SchemaColumn{
			Name:       row.Get("name").String(),
			Type:       row.Get("type").String(),
			IsPrimary:  row.Get("pk").Int64() > 0,
			IsNullable: row.Get("not_null").Int64() == 0,
		}
		if column.IsPrimary {
			primary = append(primary, column.Name)
		}
		table.Columns = append(table.Columns, column)
	}

	foreignRows, err := r.run(ctx, `SELECT "from" AS column_name, "table" AS foreign_table, "to" AS foreign_column FROM pragma_foreign_key_list(?)`, table.Name)
	if err != nil {
		return err
	}
	for _, row := range foreignRows {
		if column := findColumn(table, row.Get("column_name").String()); column != nil {
			column.IsForeignKey = true
			column.References = reference(row.Get("foreign_table"), row.Get("foreign_column"))
		}
	}

	indexRows, err := r.run(ctx, `SELECT name, "unique" AS is_unique, origin FROM pragma_index_list(?) ORDER BY name`, table.Name)
	if err != nil {
		return err
	}

	hasPrimaryIndex := false
	for _, row := range indexRows {
		name := row.Get("name").String()
		columnNames, err := r.run(ctx, `SELECT name FROM pragma_index_info(?) ORDER BY seqno`, name)
		if err != nil {
			return err
		}

		index := models.SchemaIndex{
			Name:    name,
			Columns: make([]string, 0, len(columnNames)),
			Type:    indexType(row.Get("origin").String() == "pk", row.Get("is_unique").Int64() == 1),
		}
		for _, columnRow := range columnNames {
			index.Columns = append(index.Columns, columnRow.Get("name").String())
		}

		if index.Type == models.IndexPrimary {
			hasPrimaryIndex = true
		}
		if index.Type == models.IndexUnique && len(index.Columns) == 1 {
			if column := findColumn(table, index.Columns[0]); column != nil {
				column.IsUnique = true
			}
		}
		table.Indexes = append(table.Indexes, index)
	}

	// rowid tables keyed by INTEGER PRIMARY KEY have no index entry of their own
	if !hasPrimaryIndex && len(primary) > 0 {
		table.Indexes = append([]models.SchemaIndex{{
			Name:    table.Name + "_pkey",
			Columns: primary,
			Type:    models.IndexPrimary,
		}}, table.Indexes...)
	}

	return nil
}

func isPostgresSystemSchema(schema string) bool {
	return schema == "information_schema" || strings.HasPrefix(schema, "pg_")
}

func tableType(informationSchemaType string) string {
	if strings.Contains(strings.ToUpper(informationSchemaType), "VIEW") {
		return "view"
	}
	return "table"
}

func indexType(primary, unique bool) string {
	switch {
	case primary:
		return models.IndexPrimary
	case unique:
		return models.IndexUnique
	default:
		return models.IndexPlain
	}
}

func reference(table, column query.Value) string {
	if column.IsNull() || column.String() == "" {
		return table.String()
	}
	return table.String() + "." + column.String()
}

func findColumn(table *models.SchemaTable, name string) *models.SchemaColumn {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			return &table.Columns[i]
		}
	}
	return nil
}

// flatten orders application tables before catalog tables, each by name.
func flatten(tables []*models.SchemaTable) []models.SchemaTable {
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].System != tables[j].System {
			return !tables[i].System
		}
		return tables[i].QualifiedName() < tables[j].QualifiedName()
	})

	result := make([]models.SchemaTable, 0, len(tables))
	for _, table := range tables {
		result = append(result, *table)
	}
	return result
}
