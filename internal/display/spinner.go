package display

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps the terminal spinner used while waiting on the API
type Spinner struct {
	sp *spinner.Spinner
}

// NewSpinner creates a spinner with the given message
func NewSpinner(message string) *Spinner {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " " + message
	return &Spinner{sp: sp}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	s.sp.Start()
}

// Stop halts the spinner and clears its line
func (s *Spinner) Stop() {
	s.sp.Stop()
}

// UpdateMessage changes the spinner message in place
func (s *Spinner) UpdateMessage(message string) {
	s.sp.Suffix = " " + message
}
