package commands

import (
	"context"
	"fmt"

	"discussx/internal/projector"
	"discussx/internal/query"
	"discussx/internal/service"

	"github.com/spf13/cobra"
)

var previewLimit int

var previewCmd = &cobra.Command{
	Use:   "preview <table>",
	Short: "Show the first rows of a table",
	Long: `Show the first rows of a table. The table name may be schema-qualified.

Examples:
  discussctl preview posts
  discussctl preview public.users --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTableCommand(cmd.Context(), func(ctx context.Context, queries service.QueryService) (query.Result, error) {
			return queries.PreviewTable(ctx, operator, args[0], previewLimit)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <table> <text>",
	Short: "Find rows of a table containing some text",
	Long: `Find rows where any column contains the text, ignoring case.

Examples:
  discussctl search posts react
  discussctl search users "@example.com" --limit 100`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTableCommand(cmd.Context(), func(ctx context.Context, queries service.QueryService) (query.Result, error) {
			return queries.SearchTable(ctx, operator, args[0], args[1], previewLimit)
		})
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(searchCmd)

	for _, cmd := range []*cobra.Command{previewCmd, searchCmd} {
		cmd.Flags().IntVarP(&previewLimit, "limit", "l", service.DefaultPreviewLimit, "Maximum rows to show")
	}
}

func runTableCommand(ctx context.Context, run func(context.Context, service.QueryService) (query.Result, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, queries, err := connect()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	result, err := run(ctx, queries)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("query failed: %s", result.Message)
	}

	return printResult(projector.Project(result.Columns, result.Rows, projector.View{}), result)
}
