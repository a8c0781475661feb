package progress

import (
	"github.com/pterm/pterm"
)

// Bar wraps a pterm progress bar over the total message count of the
// archive. It is display-only: the conversion does not depend on it,
// and at non-info log levels it stays disabled so log files remain
// clean.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	total   int
	enabled bool
}

// New creates a progress bar when the log level is "info" and the
// archive size is known.
func New(total int, logLevel string) *Bar {
	enabled := logLevel == "info" && total > 0

	bar := &Bar{total: total, enabled: enabled}
	if !enabled {
		return bar
	}

	pb, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Converting messages").
		Start()
	bar.pb = pb

	pterm.Info.Printf("Total messages in mbox: %d\n", total)

	return bar
}

// Step advances the bar by one message, showing the current subject.
func (b *Bar) Step(subject string) {
	if !b.enabled || b.pb == nil {
		return
	}

	b.pb.Increment()

	if subject != "" {
		b.pb.UpdateTitle("Converting: " + truncateSubject(subject))
	}
}

// truncateSubject shortens long subjects for the bar title. Slicing
// runes rather than bytes keeps multibyte subjects valid UTF-8.
func truncateSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) <= 40 {
		return subject
	}
	return string(runes[:37]) + "..."
}

// Error surfaces a per-message failure above the bar.
func (b *Bar) Error(err error) {
	if !b.enabled || err == nil {
		return
	}
	pterm.Error.Printf("Error: %v\n", err)
}

// Stop finalizes the bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}

	if b.pb.Current < b.total {
		b.pb.Current = b.total
	}
	_, _ = b.pb.Stop()
	pterm.Success.Println("Conversion complete!")
}
