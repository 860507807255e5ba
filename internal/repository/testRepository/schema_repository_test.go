package testRepository

import (
	"context"
	"errors"
	"testing"

	"discussx/internal/models"
	"discussx/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	f := setupSQLite(t)

	tables, err := f.schema.ListTables(ctx)
	require.NoError(t, err)

	byName := make(map[string]models.SchemaTable)
	for _, table := range tables {
		byName[table.Name] = table
	}

	posts, ok := byName["posts"]
	require.True(t, ok)
	assert.False(t, posts.System)
	assert.Equal(t, "table", posts.Type)

	id, ok := posts.Column("id")
	require.True(t, ok)
	assert.True(t, id.IsPrimary)

	authorID, ok := posts.Column("author_id")
	require.True(t, ok)
	assert.True(t, authorID.IsForeignKey)
	assert.Equal(t, "users.id", authorID.References)
	assert.False(t, authorID.IsNullable)

	parentID, ok := posts.Column("parent_id")
	require.True(t, ok)
	assert.True(t, parentID.IsNullable)
	assert.Equal(t, "posts.id", parentID.References)

	indexTypes := make(map[string]string)
	for _, index := range posts.Indexes {
		indexTypes[index.Name] = index.Type
	}
	assert.Equal(t, models.IndexPlain, indexTypes["posts_parent_id_idx"])
	assert.Contains(t, indexTypes, "posts_created_at_idx")

	users, ok := byName["users"]
	require.True(t, ok)
	username, ok := users.Column("username")
	require.True(t, ok)
	assert.True(t, username.IsUnique)

	hasPrimary := false
	for _, index := range users.Indexes {
		if index.Type == models.IndexPrimary {
			hasPrimary = true
			assert.Equal(t, []string{"id"}, index.Columns)
		}
	}
	assert.True(t, hasPrimary)

	count, err := f.schema.CountTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSchemaRepository_FailureIsAllOrNothing(t *testing.T) {
	exec, mock := setupMockExecutor(t)
	schema := repository.NewSchemaRepository(exec)

	mock.ExpectQuery(`FROM information_schema.tables`).
		WillReturnRows(mockRows("table_schema", "table_name", "table_type").
			AddRow("public", "posts", "BASE TABLE"))
	mock.ExpectQuery(`FROM information_schema.columns`).
		WillReturnError(errors.New("permission denied for schema information_schema"))

	tables, err := schema.ListTables(context.Background())

	var storeErr *repository.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Contains(t, storeErr.Message, "permission denied")
	assert.Nil(t, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_Postgres(t *testing.T) {
	exec, mock := setupMockExecutor(t)
	schema := repository.NewSchemaRepository(exec)

	mock.ExpectQuery(`FROM information_schema.tables`).
		WillReturnRows(mockRows("table_schema", "table_name", "table_type").
			AddRow("pg_catalog", "pg_class", "BASE TABLE").
			AddRow("public", "posts", "BASE TABLE").
			AddRow("public", "recent_posts", "VIEW"))
	mock.ExpectQuery(`FROM information_schema.columns`).
		WillReturnRows(mockRows("table_schema", "table_name", "column_name", "data_type", "is_nullable").
			AddRow("public", "posts", "id", "text", "NO").
			AddRow("public", "posts", "author_id", "text", "NO").
			AddRow("public", "posts", "parent_id", "text", "YES"))
	mock.ExpectQuery(`FROM information_schema.table_constraints`).
		WillReturnRows(mockRows("table_schema", "table_name", "constraint_type", "column_name", "foreign_table", "foreign_column").
			AddRow("public", "posts", "PRIMARY KEY", "id", nil, nil).
			AddRow("public", "posts", "FOREIGN KEY", "author_id", "users", "id"))
	mock.ExpectQuery(`FROM pg_index`).
		WillReturnRows(mockRows("table_schema", "table_name", "index_name", "is_primary", "is_unique", "column_names").
			AddRow("public", "posts", "posts_pkey", true, true, "id").
			AddRow("public", "posts", "posts_parent_id_idx", false, false, "parent_id"))

	tables, err := schema.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 3)

	// application tables sort ahead of catalog tables
	assert.Equal(t, "posts", tables[0].Name)
	assert.Equal(t, "recent_posts", tables[1].Name)
	assert.Equal(t, "view", tables[1].Type)
	assert.True(t, tables[2].System)

	posts := tables[0]
	require.Len(t, posts.Columns, 3)
	assert.True(t, posts.Columns[0].IsPrimary)
	assert.Equal(t, "users.id", posts.Columns[1].References)
	assert.True(t, posts.Columns[2].IsNullable)
	assert.Equal(t, []models.SchemaIndex{
		{Name: "posts_pkey", Columns: []string{"id"}, Type: models.IndexPrimary},
		{Name: "posts_parent_id_idx", Columns: []string{"parent_id"}, Type: models.IndexPlain},
	}, posts.Indexes)
}
