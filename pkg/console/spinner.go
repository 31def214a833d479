package console

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner reports progress on stderr so piped stdout stays machine readable.
// It is a no-op when stderr is not a terminal.
type Spinner struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	label   string
	done    int
	total   int
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) *Spinner {
	s := &Spinner{label: label}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.spinner.Suffix = " " + label
		_ = s.spinner.Color("cyan")
	}
	return s
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the spinner animation
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// SetTotal sets the number of units Advance counts towards.
func (s *Spinner) SetTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.render()
}

// Advance marks one unit of work as finished. Safe for concurrent use.
func (s *Spinner) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	s.render()
}

// Progress returns the finished and total unit counts.
func (s *Spinner) Progress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done, s.total
}

// IsEnabled reports whether the spinner draws anything.
func (s *Spinner) IsEnabled() bool {
	return s.spinner != nil
}

func (s *Spinner) render() {
	if s.spinner == nil {
		return
	}
	suffix := " " + s.label
	if s.total > 0 {
		suffix += fmt.Sprintf(" (%d/%d)", s.done, s.total)
	}
	s.spinner.Lock()
	s.spinner.Suffix = suffix
	s.spinner.Unlock()
}
