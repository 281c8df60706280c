// Package monitoring exposes a process-wide error reporter. Call sites tag
// captured errors with the module and the resource involved so alerts carry
// enough context to act on without the log stream.
package monitoring

import "time"

// Monitor receives errors that should reach an external alerting backend.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor discards everything. It is the default until Init is called.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init installs the monitor used by the package-level functions. Passing nil
// keeps the current one.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException reports err with optional tags. Nil errors are ignored by
// implementations.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover forwards panics from goroutines to the backend. Defer it at the top
// of any goroutine whose crash should be reported before the process dies.
func Recover() {
	current.Recover()
}

// Flush blocks until buffered events are delivered or the timeout passes.
func Flush(d time.Duration) {
	current.Flush(d)
}
