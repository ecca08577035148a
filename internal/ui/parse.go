package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/clock"
)

func (a *App) parseCmd() *cobra.Command {
	var meridiem string

	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Parse a free-text time entry",
		Long: `Parse free-typed text the way the timesheet fields do on blur.

A trailing AM/PM token overrides --meridiem; otherwise the selected meridiem
is carried over.

Example:
  timecard parse "315" --meridiem=pm`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			current, err := parseMeridiemFlag(meridiem)
			if err != nil {
				return err
			}

			t, err := clock.Parse(args[0], current)
			switch {
			case errors.Is(err, clock.ErrEmpty):
				fmt.Println("empty (no time entered)")
				return nil
			case err != nil:
				return fmt.Errorf("%q: %w", args[0], err)
			}

			fmt.Printf("%s  (wire %s, %d minutes since midnight)\n", t, t.Wire(), t.Minutes())
			return nil
		},
	}

	cmd.Flags().StringVar(&meridiem, "meridiem", "am", "Meridiem carried over when the text has no AM/PM token")
	return cmd
}

func parseMeridiemFlag(s string) (clock.Meridiem, error) {
	switch strings.ToLower(s) {
	case "am":
		return clock.AM, nil
	case "pm":
		return clock.PM, nil
	default:
		return "", fmt.Errorf("invalid meridiem %q (must be am or pm)", s)
	}
}
