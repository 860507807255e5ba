package testRepository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"discussx/internal/config"
	"discussx/internal/database"
	"discussx/internal/models"
	"discussx/internal/query"
	"discussx/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// fixture is a migrated in-memory store with the repositories wired on top.
type fixture struct {
	db      *sqlx.DB
	exec    query.Executor
	users   repository.UserRepository
	posts   *repository.PostRepositoryImpl
	likes   repository.LikeToggle
	schema  repository.SchemaIntrospector
	authors repository.AuthorResolver
}

func setupSQLite(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(config.DB{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseDB() })

	require.NoError(t, db.RunMigrations(context.Background()))

	exec := query.NewExecutor(db.DB)
	authors := repository.NewAuthorResolver(exec)

	return &fixture{
		db:      db.DB,
		exec:    exec,
		users:   repository.NewUserRepository(db.DB),
		posts:   repository.NewPostRepository(exec, authors).WithClock(steppingClock()),
		likes:   repository.NewLikeRepository(exec),
		schema:  repository.NewSchemaRepository(exec),
		authors: authors,
	}
}

// steppingClock advances one second per call so createdAt ordering is deterministic.
func steppingClock() func() time.Time {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func (f *fixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:    username,
		DisplayName: "User " + username,
		Email:       fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, f.users.CreateUser(context.Background(), user, "password123"))
	return user
}

func (f *fixture) countPosts(t *testing.T) int {
	t.Helper()

	var count int
	require.NoError(t, f.db.Get(&count, `SELECT COUNT(*) FROM posts`))
	return count
}

func setupMockExecutor(t *testing.T) (query.Executor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return query.NewExecutor(sqlxDB), mock
}

// mockRows declares every column as TEXT so column type lookups succeed.
func mockRows(columns ...string) *sqlmock.Rows {
	definitions := make([]*sqlmock.Column, len(columns))
	for i, column := range columns {
		definitions[i] = sqlmock.NewColumn(column).OfType("TEXT", "")
	}
	return sqlmock.NewRowsWithColumnDefinition(definitions...)
}

func stringPtr(s string) *string {
	return &s
}
