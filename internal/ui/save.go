package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/store"
	"github.com/rmoreno/timecard/internal/timesheet"
)

func (a *App) saveCmd() *cobra.Command {
	var allowInvoiced bool

	cmd := &cobra.Command{
		Use:   "save [draft file]",
		Short: "Validate a draft and save it as a timesheet record",
		Long: `Save runs the same checks as "check --external" and persists the draft only
when everything passes. Drafts containing already-invoiced entries are
rejected unless --allow-invoiced is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.runChecks(args[0], true)
			fmt.Print(report)
			if err != nil {
				return fmt.Errorf("not saved: %w", err)
			}

			loc, err := a.config.Zone()
			if err != nil {
				return err
			}
			draft, _, err := loadDraft(args[0], loc)
			if err != nil {
				return err
			}
			if draft.HasInvoiced() && !allowInvoiced {
				return fmt.Errorf("draft contains invoiced entries; rerun with --allow-invoiced to save anyway")
			}

			s, err := store.New(a.config.Storage.DBPath, loc)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			rec := &store.Record{
				ID:         draft.RecordID,
				ProviderID: draft.ProviderID,
				ClientID:   draft.ClientID,
				Intervals:  draft.Payload(loc),
			}
			if err := s.SaveRecord(cmd.Context(), rec); err != nil {
				return fmt.Errorf("saving record: %w", err)
			}

			var totalMinutes int
			for _, iv := range rec.Intervals {
				totalMinutes += iv.Minutes
			}
			fmt.Printf("saved record %s: %d interval(s), %s hour(s), %.2f unit(s)\n",
				rec.ID, len(rec.Intervals),
				timesheet.FormatHours(timesheet.MinutesToHours(totalMinutes)),
				timesheet.MinutesToUnits(totalMinutes))
			a.logger.Info("record saved", "id", rec.ID, "intervals", len(rec.Intervals))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowInvoiced, "allow-invoiced", false, "Save even when the draft contains invoiced entries")
	return cmd
}
