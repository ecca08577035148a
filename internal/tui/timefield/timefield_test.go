package timefield

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmoreno/timecard/internal/clock"
)

func typeKeys(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		_ = cmd
	}
	return m
}

func focused(t *testing.T, meridiem clock.Meridiem) Model {
	t.Helper()
	m := New("From", meridiem)
	if cmd := m.Focus(); cmd != nil {
		_ = cmd()
	}
	return m
}

func TestColonAutoInsertionWhileTyping(t *testing.T) {
	m := focused(t, clock.PM)

	m = typeKeys(t, m, "31")
	if got := m.input.Value(); got != "31" {
		t.Fatalf("after '31', text = %q", got)
	}

	m = typeKeys(t, m, "5")
	if got := m.input.Value(); got != "3:15" {
		t.Fatalf("after third digit, text = %q, want 3:15", got)
	}

	// Already punctuated text is never rewritten retroactively.
	m = typeKeys(t, m, "0")
	if got := m.input.Value(); got != "3:150" {
		t.Fatalf("after fourth keystroke, text = %q, want 3:150", got)
	}
}

func TestNoParsingUntilBlur(t *testing.T) {
	m := focused(t, clock.AM)
	m = typeKeys(t, m, "99")

	// Invalid partial state sits in the field while focused.
	if m.Err() != nil {
		t.Fatalf("focused field should not validate, got error %v", m.Err())
	}
	if m.Value() != nil {
		t.Fatal("focused field should not produce a value")
	}

	m.Blur()
	if !errors.Is(m.Err(), clock.ErrInvalidTime) {
		t.Fatalf("blur error = %v, want ErrInvalidTime", m.Err())
	}
	if got := m.input.Value(); got != "99" {
		t.Fatalf("raw text must be retained for correction, got %q", got)
	}
}

func TestBlurNormalizesValidInput(t *testing.T) {
	m := focused(t, clock.PM)
	m = typeKeys(t, m, "315")
	m.Blur()

	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	v := m.Value()
	if v == nil {
		t.Fatal("expected a parsed value")
	}
	want := clock.Time{Hour: 3, Minute: 15, Meridiem: clock.PM}
	if *v != want {
		t.Errorf("value = %v, want %v", *v, want)
	}
	if got := m.input.Value(); got != "3:15" {
		t.Errorf("display text = %q, want normalized 3:15", got)
	}
}

func TestBlurOnEmptyIsNotAnError(t *testing.T) {
	m := focused(t, clock.AM)
	m.Blur()
	if m.Err() != nil {
		t.Fatalf("empty field should not error, got %v", m.Err())
	}
	if m.Value() != nil {
		t.Fatal("empty field should have no value")
	}
}

func TestTrailingMeridiemTokenOverridesToggle(t *testing.T) {
	m := focused(t, clock.AM)
	m = typeKeys(t, m, "315 pm")
	m.Blur()

	v := m.Value()
	if v == nil {
		t.Fatalf("expected value, error %v", m.Err())
	}
	if v.Meridiem != clock.PM {
		t.Errorf("meridiem = %s, want PM from trailing token", v.Meridiem)
	}
	if m.Meridiem() != clock.PM {
		t.Errorf("field meridiem should follow the parsed token, got %s", m.Meridiem())
	}
}

func TestToggleMeridiemDoesNotReparse(t *testing.T) {
	m := focused(t, clock.PM)
	m = typeKeys(t, m, "515")
	m.Blur()

	v := m.Value()
	if v == nil || *v != (clock.Time{Hour: 5, Minute: 15, Meridiem: clock.PM}) {
		t.Fatalf("setup failed, value = %v", v)
	}

	m.ToggleMeridiem()
	got := m.Value()
	want := clock.Time{Hour: 5, Minute: 15, Meridiem: clock.AM}
	if got == nil || *got != want {
		t.Errorf("toggled value = %v, want %v", got, want)
	}
	if m.input.Value() != "5:15" {
		t.Errorf("display text changed on toggle: %q", m.input.Value())
	}
}

func TestSetValueDoesNotMarkTouched(t *testing.T) {
	m := New("From", clock.AM)
	m.SetValue(clock.Time{Hour: 3, Minute: 0, Meridiem: clock.PM})

	if m.Touched() {
		t.Error("programmatic fill must not mark the field touched")
	}
	if m.Value() == nil || m.Value().Wire() != "15:00" {
		t.Errorf("value = %v, want 15:00", m.Value())
	}

	m2 := focused(t, clock.AM)
	m2 = typeKeys(t, m2, "3")
	if !m2.Touched() {
		t.Error("typing must mark the field touched")
	}
}
