package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one row of the account picker.
type PickerItem struct {
	Label    string // e.g. "Account 1"
	SubLabel string // dimmed, e.g. the address
}

type pickerModel struct {
	title    string
	items    []PickerItem
	cursor   int
	chosen   int // -1 until a row is confirmed
	quitting bool
}

func newPickerModel(title string, items []PickerItem, initial int) pickerModel {
	if initial < 0 || initial >= len(items) {
		initial = 0
	}
	return pickerModel{title: title, items: items, cursor: initial, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.chosen = m.cursor
		return m, tea.Quit
	default:
		// A digit jumps straight to that account row.
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			if i := int(s[0] - '0'); i < len(m.items) {
				m.cursor = i
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n\n")
	for i, item := range m.items {
		line := "    " + StyleValue.Render(item.Label)
		if item.SubLabel != "" {
			line += "  " + StyleAddress.Render(item.SubLabel)
		}
		if i == m.cursor {
			line = StyleSelected.Render("  ▸ " + strings.TrimPrefix(line, "    "))
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + StyleMeta.Render("  ↑↓ move · 0-9 jump · enter select · q cancel") + "\n")
	return sb.String()
}

// PickItem shows items with the cursor on initial and returns the chosen
// index, or -1 when the user cancels.
func PickItem(title string, items []PickerItem, initial int) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("nothing to pick from")
	}

	final, err := tea.NewProgram(newPickerModel(title, items, initial), tea.WithAltScreen()).Run()
	if err != nil {
		return -1, fmt.Errorf("picker: %w", err)
	}
	return final.(pickerModel).chosen, nil
}
