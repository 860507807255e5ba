package commands

import (
	"fmt"
	"os"

	"discussx/internal/config"
	"discussx/internal/database"
	"discussx/internal/logger"
	"discussx/internal/models"
	"discussx/internal/query"
	"discussx/internal/repository"
	"discussx/internal/service"

	"github.com/spf13/cobra"
)

var (
	driver     string
	dsn        string
	jsonOutput bool
	verbose    bool
)

// operator is the caller every dashboard operation runs as from the CLI.
var operator = &models.AuthenticatedUser{
	ID:          "discussctl",
	Username:    "discussctl",
	DisplayName: "discussctl",
}

var rootCmd = &cobra.Command{
	Use:   "discussctl",
	Short: "DiscussX database console",
	Long: `discussctl runs the DiscussX SQL dashboard from a terminal.

Connection settings come from the same environment (.env) as the API
server and can be overridden with --driver and --dsn.

Examples:
  discussctl migrate
  discussctl schema --system
  discussctl preview posts --limit 5
  discussctl query "SELECT * FROM users WHERE username = ?" alice --sort created_at --desc`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "ERROR"
		if verbose {
			level = "DEBUG"
		}
		logger.SetOutput(os.Stderr, logger.ParseLevel(level))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Database driver: postgres, pgx or sqlite (default from DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Connection string or sqlite file (default from DB_DSN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log executed statements")
}

// dbConfig is the environment's database configuration with the command
// line overrides applied.
func dbConfig() config.DB {
	cfg := config.LoadConfig().DB
	if driver != "" {
		cfg.Driver = driver
	}
	if dsn != "" {
		cfg.DSN = dsn
	}
	return cfg
}

func connect() (*database.DB, service.QueryService, error) {
	db, err := database.Open(dbConfig())
	if err != nil {
		return nil, nil, err
	}

	exec := query.NewExecutor(db.DB)
	return db, service.NewQueryService(exec, repository.NewSchemaRepository(exec)), nil
}
