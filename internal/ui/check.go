package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/overlap"
	"github.com/rmoreno/timecard/internal/store"
	"github.com/rmoreno/timecard/internal/timesheet"
)

var (
	errDraftInvalid  = errors.New("draft has validation errors")
	errDraftConflict = errors.New("draft has overlap conflicts")
)

func (a *App) checkCmd() *cobra.Command {
	var (
		external bool
		copyOut  bool
	)

	cmd := &cobra.Command{
		Use:   "check [draft file]",
		Short: "Check a draft for validation errors and overlaps",
		Long: `Check a draft file: every in-use slot must have a valid time range, and no
two intervals on the same day may overlap. With --external the draft is also
checked against previously saved timesheets for the same provider/client
pair; if that check fails the local results still stand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			report, err := a.runChecks(args[0], external)
			fmt.Print(report)
			if copyOut {
				if cerr := clipboard.WriteAll(stripReportColors(report)); cerr != nil {
					a.logger.Warn("copying report to clipboard", "error", cerr)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&external, "external", false, "Also check against saved timesheets")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the report to the clipboard")
	return cmd
}

// runChecks loads a draft and produces the human-readable report. The error
// is non-nil when anything would block a save.
func (a *App) runChecks(path string, external bool) (string, error) {
	loc, err := a.config.Zone()
	if err != nil {
		return "", err
	}

	draft, fieldErrs, err := loadDraft(path, loc)
	if err != nil {
		return "", err
	}
	fieldErrs = append(fieldErrs, draft.Validate(loc)...)

	conflicts := overlap.FindInternal(overlap.DraftSpans(draft), loc)
	var externalErr error
	if external {
		externalConflicts, err := a.checkExternal(draft, loc)
		if err != nil {
			externalErr = err
			a.logger.Warn("external overlap check failed", "error", err)
		}
		conflicts = append(conflicts, externalConflicts...)
	}

	report := buildReport(draft, fieldErrs, conflicts, externalErr)

	switch {
	case len(fieldErrs) > 0:
		return report, errDraftInvalid
	case len(conflicts) > 0:
		return report, errDraftConflict
	default:
		return report, nil
	}
}

// checkExternal runs the gateway check synchronously with the configured
// debounce-equivalent timeout. CLI invocations are one-shot, so the
// debouncing Checker is reserved for the interactive entry mode.
func (a *App) checkExternal(draft *timesheet.Draft, loc *time.Location) ([]overlap.Conflict, error) {
	s, err := store.New(a.config.Storage.DBPath, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", overlap.ErrGatewayUnavailable, err)
	}
	defer func() { _ = s.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), overlap.DefaultTimeout)
	defer cancel()

	resp, err := s.Check(ctx, overlap.Request{
		Subject:         overlap.Subject{ProviderID: draft.ProviderID, ClientID: draft.ClientID},
		Candidates:      draft.Payload(loc),
		ExcludeRecordID: draft.RecordID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", overlap.ErrGatewayUnavailable, err)
	}
	return resp.Conflicts, nil
}

func buildReport(draft *timesheet.Draft, fieldErrs []timesheet.FieldError, conflicts []overlap.Conflict, externalErr error) string {
	red := color.New(color.FgRed).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "Draft for %s/%s: %d day(s)\n", draft.ProviderID, draft.ClientID, len(draft.Days))

	for _, fe := range fieldErrs {
		b.WriteString(red("  invalid: %s\n", fe.Error()))
	}
	for _, c := range conflicts {
		kind := "internal"
		if c.External {
			kind = "external"
		}
		b.WriteString(red("  overlap (%s): %s %s\n", kind, c.Message, categoryList(c.Categories)))
	}
	if externalErr != nil {
		b.WriteString(yellow("  external check unavailable; showing local results only\n"))
	}
	if draft.HasInvoiced() {
		b.WriteString(yellow("  warning: draft contains already-invoiced entries\n"))
	}
	if len(fieldErrs) == 0 && len(conflicts) == 0 {
		b.WriteString(green("  no conflicts\n"))
	}
	return b.String()
}

func categoryList(cats []timesheet.Category) string {
	if len(cats) == 0 {
		return ""
	}
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = string(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// stripReportColors removes ANSI escapes for clipboard output.
func stripReportColors(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
