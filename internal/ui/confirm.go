package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Confirm asks a yes/no question on stderr; anything but y/yes is a no,
// including end of input.
func Confirm(prompt string) bool {
	return confirm(os.Stdin, os.Stderr, StyleWarning.Render(prompt+" [y/N]: "), "y", "yes")
}

// ConfirmDanger guards irreversible actions: only the full word "yes" counts.
func ConfirmDanger(prompt string) bool {
	return confirm(os.Stdin, os.Stderr, StyleError.Render("⚠ "+prompt+" Type yes to continue: "), "yes")
}

func confirm(in io.Reader, out io.Writer, prompt string, accept ...string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return slices.Contains(accept, strings.ToLower(strings.TrimSpace(line)))
}
