// Package ui implements the timecard command line interface.
package ui

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/config"
	"github.com/rmoreno/timecard/internal/logging"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	logger *log.Logger
	root   *cobra.Command
	debug  bool
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "timecard",
		Short: "Timesheet time-entry and overlap checking",
		Long: `Timecard parses free-text time entries, computes billable durations and
units, and detects overlapping intervals within a timesheet draft and
against previously saved timesheets.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			a.logger = logging.New(a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.parseCmd())
	a.root.AddCommand(a.newCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.saveCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.entryCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("timecard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
