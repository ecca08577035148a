package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/dateutil"
	"github.com/rmoreno/timecard/internal/overlap"
	"github.com/rmoreno/timecard/internal/store"
	"github.com/rmoreno/timecard/internal/timesheet"
	"github.com/rmoreno/timecard/internal/tui/timefield"
)

func (a *App) entryCmd() *cobra.Command {
	var (
		provider string
		client   string
		date     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Interactively enter a time range",
		Long: `Entry opens a two-field form for a single time range. Typing digits inserts
the colon automatically; tab moves between fields and parses the one being
left; ctrl+t flips AM/PM without re-parsing. When a provider and client are
given the range is checked against saved timesheets as you type.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			loc, err := a.config.Zone()
			if err != nil {
				return err
			}
			if date == "" {
				date = dateutil.DayKey(time.Now(), loc)
			} else if _, err := dateutil.ParseDate(date, loc); err != nil {
				return err
			}

			var checker *overlap.Checker
			if provider != "" && client != "" {
				s, err := store.New(a.config.Storage.DBPath, loc)
				if err != nil {
					a.logger.Warn("store unavailable, skipping cross-record checks", "error", err)
				} else {
					defer func() { _ = s.Close() }()
					checker = overlap.NewChecker(s, a.config.Debounce(), 0)
					defer checker.Close()
				}
			}

			m := newEntryModel(entryParams{
				date:     date,
				category: timesheet.Category(category),
				subject:  overlap.Subject{ProviderID: provider, ClientID: client},
				checker:  checker,
			})
			final, err := tea.NewProgram(m).Run()
			if err != nil {
				return err
			}
			if em, ok := final.(entryModel); ok && em.interval != nil {
				fmt.Printf("%s  %s-%s  %d min  %.2f units\n",
					em.interval.Date, em.interval.StartTime, em.interval.EndTime,
					em.interval.Minutes, em.interval.Units)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider id for cross-record checks")
	cmd.Flags().StringVar(&client, "client", "", "Client id for cross-record checks")
	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&category, "category", string(timesheet.CategoryPrimary), "Entry category")
	return cmd
}

var (
	entryTitleStyle = lipgloss.NewStyle().Bold(true)
	entryInfoStyle  = lipgloss.NewStyle().Faint(true)
	entryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	entryConflict   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type entryParams struct {
	date     string
	category timesheet.Category
	subject  overlap.Subject
	checker  *overlap.Checker
}

// checkResultMsg delivers a debounced cross-record result into the program.
type checkResultMsg overlap.Result

type entryModel struct {
	params entryParams

	from    timefield.Model
	to      timefield.Model
	focused int // 0 = from, 1 = to

	conflicts   []overlap.Conflict
	gatewayDown bool
	lastSeq     uint64

	// interval is the accepted range once the user confirms with enter.
	interval *timesheet.Interval
}

func newEntryModel(p entryParams) entryModel {
	m := entryModel{
		params: p,
		from:   timefield.New("From", clock.PM),
		to:     timefield.New("To", clock.PM),
	}
	m.from.Focus()
	return m
}

func (m entryModel) Init() tea.Cmd {
	return m.waitForResult()
}

// waitForResult bridges the checker's result channel into the message loop.
func (m entryModel) waitForResult() tea.Cmd {
	if m.params.checker == nil {
		return nil
	}
	ch := m.params.checker.Results()
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return checkResultMsg(r)
	}
}

func (m entryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case checkResultMsg:
		if msg.Seq >= m.lastSeq {
			m.gatewayDown = msg.Err != nil
			if msg.Err == nil {
				m.conflicts = msg.Conflicts
			}
		}
		return m, m.waitForResult()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			m.blurFocused()
			m.focused = 1 - m.focused
			cmd := m.focusCurrent()
			m.submitCheck()
			return m, cmd
		case "ctrl+t":
			if m.focused == 0 {
				m.from.ToggleMeridiem()
			} else {
				m.to.ToggleMeridiem()
			}
			m.submitCheck()
			return m, nil
		case "enter":
			m.blurFocused()
			m.submitCheck()
			if iv := m.currentInterval(); iv != nil {
				m.interval = iv
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.from, cmd = m.from.Update(msg)
	} else {
		m.to, cmd = m.to.Update(msg)
	}
	return m, cmd
}

func (m *entryModel) blurFocused() {
	if m.focused == 0 {
		m.from.Blur()
	} else {
		m.to.Blur()
	}
}

func (m *entryModel) focusCurrent() tea.Cmd {
	if m.focused == 0 {
		return m.from.Focus()
	}
	return m.to.Focus()
}

// currentInterval returns the interval for the parsed range, or nil while
// either endpoint is missing or the range is invalid.
func (m entryModel) currentInterval() *timesheet.Interval {
	from, to := m.from.Value(), m.to.Value()
	minutes, err := timesheet.DurationMinutes(from, to)
	if err != nil {
		return nil
	}
	return &timesheet.Interval{
		Date:      m.params.date,
		StartTime: from.Wire(),
		EndTime:   to.Wire(),
		Minutes:   minutes,
		Units:     timesheet.MinutesToUnits(minutes),
		Category:  m.params.category,
	}
}

// submitCheck hands the current range to the debounced checker. Incomplete
// or invalid ranges clear any stale conflicts instead.
func (m *entryModel) submitCheck() {
	iv := m.currentInterval()
	if iv == nil {
		m.conflicts = nil
		return
	}
	if m.params.checker == nil {
		return
	}
	m.lastSeq = m.params.checker.Submit(overlap.Request{
		Subject:    m.params.subject,
		Candidates: []timesheet.Interval{*iv},
	})
}

func (m entryModel) View() string {
	var b strings.Builder
	b.WriteString(entryTitleStyle.Render(fmt.Sprintf("Time entry  %s  %s", m.params.date, m.params.category)))
	b.WriteString("\n\n")
	b.WriteString(m.from.View())
	b.WriteString("\n")
	b.WriteString(m.to.View())
	b.WriteString("\n\n")

	if iv := m.currentInterval(); iv != nil {
		b.WriteString(entryInfoStyle.Render(fmt.Sprintf("%d min, %s h, %.2f units",
			iv.Minutes, timesheet.FormatHours(timesheet.MinutesToHours(iv.Minutes)), iv.Units)))
		b.WriteString("\n")
	} else if m.from.Value() != nil && m.to.Value() != nil {
		b.WriteString(entryWarnStyle.Render("end must be after start"))
		b.WriteString("\n")
	}

	for _, c := range m.conflicts {
		b.WriteString(entryConflict.Render("overlap: " + c.Message))
		b.WriteString("\n")
	}
	if m.gatewayDown {
		b.WriteString(entryWarnStyle.Render("cross-record check unavailable"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(entryInfoStyle.Render("tab: switch field  ctrl+t: am/pm  enter: accept  esc: quit"))
	return b.String()
}
