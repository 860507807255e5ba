package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"discussx/cmd/discussctl/output"
	"discussx/internal/models"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var includeSystem bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show tables, columns and indexes",
	Long: `Introspect the connected database and print every table with its
columns and indexes. Catalog tables are hidden unless --system is given.

Examples:
  discussctl schema
  discussctl schema --system --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&includeSystem, "system", false, "Include catalog tables")
}

func runSchema(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, queries, err := connect()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	tables, err := queries.Schema(ctx, operator, includeSystem)
	if err != nil {
		return fmt.Errorf("failed to introspect schema: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	if len(tables) == 0 {
		output.Warning(os.Stdout, "No tables found in database")
		return nil
	}

	for _, table := range tables {
		printSchemaTable(table)
	}
	return nil
}

func printSchemaTable(table models.SchemaTable) {
	title := table.QualifiedName()
	if table.System {
		title += " (system)"
	}
	output.Section(os.Stdout, title)

	fmt.Println(output.Table(
		[]string{"COLUMN", "TYPE", "NULLABLE", "KEY", "REFERENCES"},
		columnRows(table.Columns),
		"",
	))

	if len(table.Indexes) > 0 {
		fmt.Println(output.Table(
			[]string{"INDEX", "TYPE", "COLUMNS"},
			indexRows(table.Indexes),
			"",
		))
	}
}

func columnRows(columns []models.SchemaColumn) [][]string {
	rows := make([][]string, 0, len(columns))
	for _, column := range columns {
		nullable := "NO"
		if column.IsNullable {
			nullable = "YES"
		}

		var keys []string
		if column.IsPrimary {
			keys = append(keys, "PK")
		}
		if column.IsUnique {
			keys = append(keys, "UNIQUE")
		}
		if column.IsForeignKey {
			keys = append(keys, "FK")
		}

		rows = append(rows, []string{column.Name, column.Type, nullable, strings.Join(keys, ","), column.References})
	}
	return rows
}

func indexRows(indexes []models.SchemaIndex) [][]string {
	rows := make([][]string, 0, len(indexes))
	for _, index := range indexes {
		rows = append(rows, []string{index.Name, index.Type, strings.Join(index.Columns, ", ")})
	}
	return rows
}
