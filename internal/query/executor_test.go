package query

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExecutor(t *testing.T) (*SQLExecutor, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewExecutor(sqlxDB), mock
}

func typedRows(columns map[string]string, order ...string) *sqlmock.Rows {
	definitions := make([]*sqlmock.Column, len(order))
	for i, name := range order {
		definitions[i] = sqlmock.NewColumn(name).OfType(columns[name], "")
	}
	return sqlmock.NewRowsWithColumnDefinition(definitions...)
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		statement string
		want      bool
	}{
		{"SELECT 1", true},
		{"  select * from posts", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"-- comment\nSELECT 1", true},
		{"/* block */ PRAGMA table_info(posts)", true},
		{"EXPLAIN SELECT 1", true},
		{"INSERT INTO t VALUES (1) RETURNING id", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE posts SET content = 'no returning here' WHERE id = ?", false},
		{"UPDATE posts SET content = 'it''s returning' WHERE id = ?", false},
		{`UPDATE "returning" SET likes = 1`, false},
		{"UPDATE posts SET returning_count = 1", false},
		{"UPDATE posts SET content = 'x' WHERE id = ? RETURNING id", true},
		{"UPDATE posts SET likes = 1", false},
		{"DELETE FROM posts", false},
		{"CREATE TABLE x (id INT)", false},
		{"-- only a comment", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			assert.Equal(t, tt.want, returnsRows(tt.statement))
		})
	}
}

func TestExecutor_Query(t *testing.T) {
	exec, mock := setupExecutor(t)

	rows := typedRows(map[string]string{"id": "INT8", "meta": "JSONB", "name": "TEXT"}, "id", "meta", "name").
		AddRow(int64(1), []byte(`{"tags":["go"]}`), "alice").
		AddRow(int64(2), nil, nil)

	mock.ExpectQuery(`SELECT id, meta, name FROM users WHERE id > \$1`).
		WithArgs(int64(0)).
		WillReturnRows(rows)

	result := exec.Execute(context.Background(), "SELECT id, meta, name FROM users WHERE id > $1", Int(0))

	require.True(t, result.Success, result.Message)
	assert.Equal(t, []string{"id", "meta", "name"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, int64(2), result.RowsAffected)
	assert.Equal(t, Int(1), result.Rows[0].Get("id"))
	assert.Equal(t, KindObject, result.Rows[0].Get("meta").Kind())
	assert.Equal(t, String("alice"), result.Rows[0].Get("name"))
	assert.True(t, result.Rows[1].Get("name").IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_Exec(t *testing.T) {
	exec, mock := setupExecutor(t)

	mock.ExpectExec(`UPDATE posts SET likes = likes \+ 1 WHERE id = \?`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := exec.Execute(context.Background(), "UPDATE posts SET likes = likes + 1 WHERE id = ?", "p1")

	require.True(t, result.Success)
	assert.Equal(t, int64(1), result.RowsAffected)
	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Columns)

	mock.ExpectExec(`UPDATE posts SET content = 'no returning here' WHERE id = \?`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result = exec.Execute(context.Background(), "UPDATE posts SET content = 'no returning here' WHERE id = ?", "p1")

	require.True(t, result.Success)
	assert.Equal(t, int64(1), result.RowsAffected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_Failures(t *testing.T) {
	t.Run("engine error is carried verbatim", func(t *testing.T) {
		exec, mock := setupExecutor(t)
		mock.ExpectQuery(`SELEC`).WillReturnError(errors.New(`syntax error at or near "SELEC"`))

		result := exec.Execute(context.Background(), "SELECT * FROM")

		assert.False(t, result.Success)
		assert.Equal(t, `syntax error at or near "SELEC"`, result.Message)
		assert.Empty(t, result.Rows)
	})

	t.Run("empty statement", func(t *testing.T) {
		exec, _ := setupExecutor(t)

		result := exec.Execute(context.Background(), "   ")

		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Message)
	})
}

func TestExecutor_WithTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		exec, mock := setupExecutor(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO posts`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := exec.WithTx(context.Background(), func(tx Executor) error {
			result := tx.Execute(context.Background(), "INSERT INTO posts (id) VALUES (?)", "p1")
			if !result.Success {
				return errors.New(result.Message)
			}
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		exec, mock := setupExecutor(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := exec.WithTx(context.Background(), func(tx Executor) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
