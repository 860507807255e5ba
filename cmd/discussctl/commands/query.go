package commands

import (
	"context"
	"fmt"
	"os"

	"discussx/cmd/discussctl/output"
	"discussx/internal/projector"
	"discussx/internal/query"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	sortKey    string
	descending bool
	filterText string
	csvOutput  bool
)

var queryCmd = &cobra.Command{
	Use:   "query <statement> [params...]",
	Short: "Run a SQL statement",
	Long: `Run one SQL statement with positional parameters and print the result.

Parameters are read as JSON scalars when they parse as one (42, 1.5, true,
null, "quoted") and as plain text otherwise.

Examples:
  discussctl query "SELECT * FROM posts"
  discussctl query "SELECT * FROM posts WHERE likes > ?" 3 --sort likes --desc
  discussctl query "SELECT * FROM users" --filter alice --csv > users.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&sortKey, "sort", "s", "", "Column to sort by")
	queryCmd.Flags().BoolVar(&descending, "desc", false, "Sort descending")
	queryCmd.Flags().StringVarP(&filterText, "filter", "f", "", "Keep rows containing this text (case-insensitive)")
	queryCmd.Flags().BoolVar(&csvOutput, "csv", false, "Write the result as CSV")
}

// parseParams turns command line arguments into statement parameters.
func parseParams(args []string) []query.Value {
	params := make([]query.Value, 0, len(args))
	for _, arg := range args {
		var value query.Value
		if err := json.Unmarshal([]byte(arg), &value); err != nil || value.Kind() == query.KindObject {
			value = query.String(arg)
		}
		params = append(params, value)
	}
	return params
}

func runQuery(ctx context.Context, statement string, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, queries, err := connect()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	view := projector.View{SortKey: sortKey, Filter: filterText}
	if descending {
		view.Direction = projector.Descending
	}

	table, result, err := queries.View(ctx, operator, statement, parseParams(args), view)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("query failed: %s", result.Message)
	}

	return printResult(table, result)
}

func printResult(table projector.Table, result query.Result) error {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case csvOutput:
		return projector.WriteCSV(os.Stdout, table)
	}

	if len(table.Headers) == 0 {
		output.Success(os.Stdout, "%d rows affected", result.RowsAffected)
		return nil
	}

	fmt.Println(output.Table(table.Headers, table.Rows, projector.NullText))
	output.Muted(os.Stdout, "%d of %d rows shown", table.Shown, table.Total)
	return nil
}
