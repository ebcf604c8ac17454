package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/portal"
)

// listFlags are the flags shared by the list screens.
type listFlags struct {
	query     string
	sortBy    string
	desc      bool
	selectAll bool
	action    string
	jsonOut   bool
}

func (f *listFlags) register(cmd *cobra.Command, actions []listview.Action) {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "sort column")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&f.selectAll, "select-all", false, "select every visible record")
	cmd.Flags().StringVar(&f.action, "action", "", "bulk action to run on the selection: "+strings.Join(names, ", "))
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "output as JSON")
}

// columnNames returns the sortable columns of schema in name order.
func columnNames[T any](schema listview.Schema[T]) []string {
	return slices.Sorted(maps.Keys(schema.Columns))
}

// applySort sets the sort column. An empty column keeps the screen default.
func applySort[K comparable, T any](c *listview.Controller[K, T], schema listview.Schema[T], column string, desc bool) error {
	if column == "" {
		if desc {
			s := c.Sort()
			s.Direction = listview.Descending
			c.SetSort(s)
		}
		return nil
	}
	if _, ok := schema.Columns[column]; !ok {
		return fmt.Errorf("unknown sort column %q (valid: %s)", column, strings.Join(columnNames(schema), ", "))
	}
	dir := listview.Ascending
	if desc {
		dir = listview.Descending
	}
	c.SetSort(listview.SortState{Column: column, Direction: dir})
	return nil
}

// runAction dispatches a bulk action on the current selection and reports it.
func runAction[K comparable, T any](ctx context.Context, cmd *cobra.Command, c *listview.Controller[K, T], name string) error {
	action, err := listview.ParseAction(name)
	if err != nil {
		return err
	}
	n, err := c.DispatchBulkAction(ctx, action)
	if err != nil {
		return err
	}
	cmd.Printf("%s %s applied to %d %s\n", output.Checkmark(true), action, n, c.Name())
	return nil
}

// printExport reports the file written by an export action.
func printExport(cmd *cobra.Command, res portal.ExportResult) {
	cmd.Printf("Exported %s rows (%s) to %s\n",
		output.FormatCount(res.Rows), output.FormatBytes(res.Bytes), res.Path)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func selectionMark(selected bool) string {
	if selected {
		return "*"
	}
	return ""
}
