package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"discussx/internal/config"
	"discussx/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type MethodsDB interface {
	CloseDB() error
	RunMigrations(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	GetDB() *DB
}

type DB struct {
	*sqlx.DB
}

// ConnectDB opens the configured database, applies the embedded migrations
// when enabled and verifies the connection.
func ConnectDB(cfg *config.Config) (*DB, error) {
	db, err := Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DB.RunMigrations {
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	logger.Infof("connected to %s database", db.DriverName())
	return db, nil
}

// Open connects to the database described by cfg without running migrations.
func Open(cfg config.DB) (*DB, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	logger.Infof("connecting to database: driver=%s host=%s dbname=%s", driverName, cfg.DbHOST, cfg.DbNAME)

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driverName == DriverSQLite {
		// a single connection keeps in-memory databases shared and serializes writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	return &DB{db}, nil
}

func dataSource(cfg config.DB) (string, string, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverPgx, "":
		driverName := cfg.Driver
		if driverName == "" {
			driverName = DriverPostgres
		}
		if cfg.DSN != "" {
			return driverName, cfg.DSN, nil
		}
		return driverName, fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DbHOST,
			cfg.DbPORT,
			cfg.DbUSER,
			cfg.DbPASSWORD,
			cfg.DbNAME,
			cfg.DbSSLMODE,
		), nil
	case DriverSQLite:
		return DriverSQLite, sqliteDSN(cfg.DSN), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	if dsn == "" {
		dsn = "discussx.db"
	}
	return "file:" + dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations applies every embedded migration for the connected dialect in
// file name order. Migrations are idempotent (IF NOT EXISTS).
func (db *DB) RunMigrations(ctx context.Context) error {
	dir := path.Join("migrations", db.dialectDir())

	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		migrationSQL, err := fs.ReadFile(migrationsFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		logger.Infof("applying migration %s", name)

		for _, statement := range splitStatements(string(migrationSQL)) {
			if _, err := db.ExecContext(ctx, statement); err != nil {
				return fmt.Errorf("migration %s failed: %w", name, err)
			}
		}
	}

	return nil
}

func (db *DB) dialectDir() string {
	if db.DriverName() == DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// splitStatements splits a migration file on semicolons that end a line.
func splitStatements(script string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(script, "\n") {
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			if statement := strings.TrimSpace(current.String()); statement != ";" {
				statements = append(statements, statement)
			}
			current.Reset()
		}
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}

	return statements
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.PingContext(ctx)
}

func (db *DB) GetDB() *DB {
	return db
}
