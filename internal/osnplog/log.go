// Package osnplog wraps charmbracelet/log with the small, fixed set of
// fields an OSNP endpoint ever logs: the event source and the state
// transition it caused. Kept separate from the root package so the stack's
// core has exactly one place that decides how verbose the hot per-frame
// path is allowed to be.
package osnplog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger suitable for a single Endpoint. Frame-level events
// log at Debug; anything the operator should notice without turning on
// verbose logging (a dropped malformed frame, a TX failure) logs at Warn.
// State transitions never log at Info — on a duty-cycled sensor node that
// would be the single largest source of UART traffic.
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "osnp",
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// Discard returns a logger that drops everything, for tests and for
// callers that don't want the stack's own diagnostics.
func Discard() *log.Logger {
	l := New(io.Discard)
	l.SetLevel(log.FatalLevel + 1)
	return l
}
