package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// DeploymentRow holds per-deployment data needed for interactivity.
type DeploymentRow struct {
	Address     string // full 0x... contract address (for copy)
	ExplorerURL string // e.g. https://sepolia.etherscan.io/address/0x...
}

// deployListModel is the bubbletea model for the interactive deployments table.
type deployListModel struct {
	title  string
	table  *Table
	rows   []DeploymentRow // parallel to table.Rows
	cursor int
	flash  string // brief feedback shown in hint bar

	open func(url string)
	copy func(text string) error
}

func (m deployListModel) Init() tea.Cmd { return nil }

func (m deployListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.table.Rows)-1 {
			m.cursor++
		}

	case "o":
		if m.cursor >= len(m.rows) {
			break
		}
		if url := m.rows[m.cursor].ExplorerURL; url != "" {
			m.open(url)
			m.flash = "Opening in browser…"
		} else {
			m.flash = "No explorer for this network"
		}

	case "c":
		if m.cursor >= len(m.rows) {
			break
		}
		addr := m.rows[m.cursor].Address
		if err := m.copy(addr); err == nil {
			m.flash = "Copied: " + TruncateAddr(addr)
		} else {
			m.flash = "Copy failed: " + err.Error()
		}
	}
	return m, nil
}

func (m deployListModel) View() string {
	m.table.SelIdx = m.cursor

	var sb strings.Builder
	sb.WriteString(m.title)
	sb.WriteString("\n\n")
	sb.WriteString(m.table.Render())

	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(deployListControls())
	}
	sb.WriteString("\n")

	return sb.String()
}

func deployListControls() string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	sb.WriteString(StyleMeta.Render("[ ↑↓ ]"))
	sb.WriteString(StyleMeta.Render(" navigate"))
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ o ]"))
	sb.WriteString(StyleMeta.Render(" open in explorer"))
	sb.WriteString(sep)
	sb.WriteString(StyleWarning.Render("[ c ]"))
	sb.WriteString(StyleMeta.Render(" copy address"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ]"))
	sb.WriteString(StyleMeta.Render(" quit"))
	return sb.String()
}

// RunDeploymentList starts the interactive deployments list. Blocks until the
// user presses q/ESC.
func RunDeploymentList(title string, table *Table, rows []DeploymentRow) error {
	m := deployListModel{
		title: title,
		table: table,
		rows:  rows,
		open:  openBrowser,
		copy:  copyToClipboard,
	}
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// openBrowser opens url in the OS default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		// Try wl-copy (Wayland), fall back to xclip.
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	_, _ = io.WriteString(stdin, text)
	stdin.Close()
	return cmd.Wait()
}
