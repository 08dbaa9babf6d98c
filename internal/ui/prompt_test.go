package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// confirm
// ---------------------------------------------------------------------------

func TestConfirmAnswers(t *testing.T) {
	for in, want := range map[string]bool{
		"y\n":   true,
		"YES\n": true,
		" yes ": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"yep\n": false,
	} {
		var out bytes.Buffer
		assert.Equal(t, want, confirm(strings.NewReader(in), &out, "Forget it?", "y", "yes"), "%q", in)
		assert.Equal(t, "Forget it?", out.String())
	}
}

func TestConfirmDangerNeedsFullWord(t *testing.T) {
	assert.False(t, confirm(strings.NewReader("y\n"), &bytes.Buffer{}, "", "yes"))
	assert.True(t, confirm(strings.NewReader("yes\n"), &bytes.Buffer{}, "", "yes"))
}

// ---------------------------------------------------------------------------
// Spinner
// ---------------------------------------------------------------------------

func TestSpinnerSilentWhenDisabled(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(&out, "Deploying...", false)
	s.Start()
	s.Stop()
	s.Stop()
	assert.Empty(t, out.String())
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(&out, "Deploying...", true)
	s.Start()
	s.Stop()

	got := out.String()
	assert.Contains(t, got, "Deploying...")
	assert.True(t, strings.HasSuffix(got, "\r"+strings.Repeat(" ", len("Deploying...")+3)+"\r"))
}

// ---------------------------------------------------------------------------
// picker
// ---------------------------------------------------------------------------

func accountItems(n int) []PickerItem {
	items := make([]PickerItem, n)
	for i := range items {
		items[i] = PickerItem{Label: "Account", SubLabel: "0x"}
	}
	return items
}

func pressPicker(m pickerModel, keys ...string) pickerModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(pickerModel)
	}
	return m
}

func TestPickerStartsOnInitial(t *testing.T) {
	m := pressPicker(newPickerModel("Select deployer account", accountItems(10), 1), "enter")
	assert.Equal(t, 1, m.chosen)
}

func TestPickerInitialOutOfRange(t *testing.T) {
	m := newPickerModel("x", accountItems(3), 7)
	assert.Equal(t, 0, m.cursor)
}

func TestPickerDigitJumps(t *testing.T) {
	m := pressPicker(newPickerModel("x", accountItems(10), 1), "7", "down", "enter")
	assert.Equal(t, 8, m.chosen)

	m = pressPicker(newPickerModel("x", accountItems(3), 0), "9")
	assert.Equal(t, 0, m.cursor, "digits past the list are ignored")
}

func TestPickerCancel(t *testing.T) {
	m := pressPicker(newPickerModel("x", accountItems(3), 2), "esc")
	assert.True(t, m.quitting)
	assert.Equal(t, -1, m.chosen)
	assert.Empty(t, m.View())
}

func TestPickerViewMarksCursor(t *testing.T) {
	items := []PickerItem{{Label: "Account 0", SubLabel: "0xf39F"}, {Label: "Account 1", SubLabel: "0x7099"}}
	view := newPickerModel("Select deployer account", items, 1).View()
	require.Contains(t, view, "Select deployer account")
	assert.Contains(t, view, "▸")
	assert.Contains(t, view, "0x7099")
}

func TestPickItemEmpty(t *testing.T) {
	i, err := PickItem("x", nil, 0)
	assert.Error(t, err)
	assert.Equal(t, -1, i)
}
