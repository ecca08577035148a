// Package timefield provides an interactive time-entry field with the
// timesheet forms' editing affordances: colon auto-insertion while typing,
// parse-on-blur, and an AM/PM toggle that never re-parses the text.
package timefield

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmoreno/timecard/internal/clock"
)

var (
	meridiemStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
)

// Model wraps a textinput with time-entry behavior. While focused the field
// holds whatever the user typed, colons auto-inserted as digits accumulate;
// parsing and validation happen only on Blur. Invalid text is kept verbatim
// for correction alongside the error.
type Model struct {
	input    textinput.Model
	label    string
	meridiem clock.Meridiem
	value    *clock.Time
	err      error
	touched  bool
}

// New creates a blurred, empty field.
func New(label string, meridiem clock.Meridiem) Model {
	ti := textinput.New()
	ti.Placeholder = "h:mm"
	ti.CharLimit = 8
	ti.Width = 8
	return Model{input: ti, label: label, meridiem: meridiem}
}

// Value returns the parsed time, or nil while the field is empty, invalid,
// or still being edited.
func (m Model) Value() *clock.Time {
	return m.value
}

// Err returns the validation error from the last blur, if any.
func (m Model) Err() error {
	return m.err
}

// Meridiem returns the field's currently selected meridiem.
func (m Model) Meridiem() clock.Meridiem {
	return m.meridiem
}

// Touched reports whether the user has manually edited the field. Bulk
// default application skips touched fields.
func (m Model) Touched() bool {
	return m.touched
}

// Focused reports whether the field is receiving keystrokes.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Focus puts the field into editing mode, restoring the raw text cursor.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// SetValue programmatically fills the field (defaults application). It does
// not mark the field touched.
func (m *Model) SetValue(t clock.Time) {
	m.value = &t
	m.meridiem = t.Meridiem
	m.err = nil
	m.input.SetValue(t.Display())
}

// Blur leaves editing mode and parses whatever is on screen. Empty input
// clears the value without error; unparseable text keeps the raw text on
// screen with the error attached; valid input normalizes the display.
func (m *Model) Blur() {
	m.input.Blur()

	raw := strings.TrimSpace(m.input.Value())
	t, err := clock.Parse(raw, m.meridiem)
	switch {
	case err == nil:
		m.value = &t
		m.meridiem = t.Meridiem
		m.err = nil
		m.input.SetValue(t.Display())
	case err == clock.ErrEmpty:
		m.value = nil
		m.err = nil
		m.input.SetValue("")
	default:
		// Keep the raw text verbatim for correction.
		m.value = nil
		m.err = err
	}
}

// ToggleMeridiem flips AM/PM. When a parsed value exists it is reconstructed
// with only the meridiem replaced; the hour and minute are untouched and the
// text is never re-parsed. Pending unparsed text keeps its characters and
// will pick up the new meridiem on blur.
func (m *Model) ToggleMeridiem() {
	m.meridiem = m.meridiem.Toggle()
	if m.value != nil {
		v := m.value.WithMeridiem(m.meridiem)
		m.value = &v
	}
}

// Update handles keystrokes while focused, applying the colon auto-insertion
// rewrite after each change. The rewrite keeps the caret at the end so
// typing continues naturally.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	after := m.input.Value()
	if after != before {
		m.touched = true
		if rewritten := clock.AutoColon(after); rewritten != after {
			m.input.SetValue(rewritten)
			m.input.CursorEnd()
		}
	}
	return m, cmd
}

// View renders the label, input, meridiem tag and any validation error.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString(" ")
	b.WriteString(m.input.View())
	b.WriteString(" ")
	b.WriteString(meridiemStyle.Render(string(m.meridiem)))
	if m.err != nil {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	return b.String()
}
