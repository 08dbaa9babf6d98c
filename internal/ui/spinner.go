package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress on stderr while waiting on the node. It stays
// silent when stderr is not a terminal so piped output is never polluted.
type Spinner struct {
	out     io.Writer
	msg     string
	enabled bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSpinner creates a spinner for msg writing to stderr.
func NewSpinner(msg string) *Spinner {
	return newSpinner(os.Stderr, msg, term.IsTerminal(int(os.Stderr.Fd())))
}

func newSpinner(out io.Writer, msg string, enabled bool) *Spinner {
	return &Spinner{
		out:     out,
		msg:     msg,
		enabled: enabled,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.enabled {
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		t := time.NewTicker(spinnerInterval)
		defer t.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.out, "\r%s  %s", StyleChain.Render(spinnerFrames[i%len(spinnerFrames)]), s.msg)
			select {
			case <-s.stop:
				// Blank exactly what was drawn: frame, two spaces, message.
				fmt.Fprintf(s.out, "\r%*s\r", lipgloss.Width(s.msg)+3, "")
				return
			case <-t.C:
			}
		}
	}()
}

// Stop halts the animation and clears its line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// StopWithMsg stops the spinner and prints msg on stdout.
func (s *Spinner) StopWithMsg(msg string) {
	s.Stop()
	fmt.Println(msg)
}
