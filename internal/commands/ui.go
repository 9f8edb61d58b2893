package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/store"
	"tasklist/internal/tui"
	"tasklist/internal/view"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive list.
type UICmd struct {
	// Options are extra program options (for testing).
	Options []tea.ProgramOption
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive list" }
func (c *UICmd) Usage() string     { return "tasklist ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, st *store.Store, args []string, out, errOut io.Writer) int {
	filter, err := view.ParseFilter(cfg.UI.Filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := view.NewController(st, view.NewElements(filter), logging.FromContext(ctx),
		view.WithExitDelay(cfg.UI.ExitDelay))
	ctrl.Load(ctx)

	opts := append([]tea.ProgramOption{tea.WithOutput(out)}, c.Options...)
	if err := tui.Run(ctx, ctrl, opts...); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
