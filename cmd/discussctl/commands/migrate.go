package commands

import (
	"context"
	"fmt"
	"os"

	"discussx/cmd/discussctl/output"
	"discussx/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the DiscussX tables",
	Long: `Apply the embedded migrations for the connected dialect. Migrations
only create what is missing, so running them twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(dbConfig())
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	output.Success(os.Stdout, "migrations applied (%s)", db.DriverName())
	return nil
}
