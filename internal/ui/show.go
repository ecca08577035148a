package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/store"
	"github.com/rmoreno/timecard/internal/timesheet"
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [record id]",
		Short: "Show a saved timesheet record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.config.Zone()
			if err != nil {
				return err
			}
			s, err := store.New(a.config.Storage.DBPath, loc)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			rec, err := s.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("record %q not found", args[0])
			}

			fmt.Printf("record %s  provider=%s client=%s\n", rec.ID, rec.ProviderID, rec.ClientID)
			var totalMinutes int
			for _, iv := range rec.Intervals {
				invoiced := ""
				if iv.Invoiced {
					invoiced = "  (invoiced)"
				}
				fmt.Printf("  %s  %s-%s  %-12s %3d min  %.2f units%s\n",
					iv.Date, iv.StartTime, iv.EndTime, iv.Category, iv.Minutes, iv.Units, invoiced)
				totalMinutes += iv.Minutes
			}
			fmt.Printf("total: %s hour(s), %.2f unit(s)\n",
				timesheet.FormatHours(timesheet.MinutesToHours(totalMinutes)),
				timesheet.MinutesToUnits(totalMinutes))
			return nil
		},
	}
}
