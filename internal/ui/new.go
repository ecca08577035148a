package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/dateutil"
	"github.com/rmoreno/timecard/internal/timesheet"
)

func (a *App) newCmd() *cobra.Command {
	var (
		provider string
		client   string
		from     string
		to       string
		output   string
		noFill   bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a draft timesheet for a date range",
		Long: `Create a draft file with one day entry per calendar day of the range,
pre-filled from the configured weekday/weekend default times.

Example:
  timecard new --provider=prov-17 --client=client-04 --from=2026-01-05 --to=2026-01-09 -o draft.toml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			loc, err := a.config.Zone()
			if err != nil {
				return err
			}

			rng, err := dateutil.NewDateRange(from, to, loc)
			if err != nil {
				return err
			}

			draft := timesheet.NewDraft(provider, client, rng.Days())
			if !noFill {
				weekday, err := a.config.WeekdayTemplates()
				if err != nil {
					return fmt.Errorf("weekday defaults: %w", err)
				}
				weekend, err := a.config.WeekendTemplates()
				if err != nil {
					return fmt.Errorf("weekend defaults: %w", err)
				}
				draft.ApplyDefaults(weekday, weekend, loc, false)
			}

			if err := writeDraft(output, draft, loc); err != nil {
				return err
			}

			fmt.Printf("Created %s: %d day(s) for %s/%s\n", output, len(draft.Days), provider, client)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider ID (required)")
	cmd.Flags().StringVar(&client, "client", "", "Client ID (required)")
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD, default: same as start)")
	cmd.Flags().StringVarP(&output, "output", "o", "draft.toml", "Output draft file")
	cmd.Flags().BoolVar(&noFill, "no-defaults", false, "Skip applying default times")

	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
