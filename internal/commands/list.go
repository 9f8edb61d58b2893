package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/output"
	"tasklist/internal/store"
	"tasklist/internal/view"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list --filter <f>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasklist list [--filter all|completed|incomplete]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	name := c.filter
	if name == "" {
		name = cfg.UI.Filter
	}
	filter, err := view.ParseFilter(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := view.NewController(st, view.NewElements(filter), logging.FromContext(ctx))
	ctrl.Load(ctx)

	rows := ctrl.Elements().List.Rows()
	visible := ctrl.Elements().List.Visible()

	if filter != view.FilterAll && len(rows) > 0 {
		output.FormatFilterHeader(out, filter, len(visible), len(rows))
	}

	// Numbers are positions in the full list so they stay valid for done/rm
	for i, row := range rows {
		if row.Hidden() {
			continue
		}
		output.FormatRow(out, i+1, row)
	}

	if len(visible) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}

	return exitcode.Success
}
