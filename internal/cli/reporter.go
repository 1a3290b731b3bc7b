package cli

import (
	"fmt"
	"io"
	"sync"

	"merngen/internal/ui"
)

// ConsoleReporter prints progress events as styled lines.
type ConsoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
}

func NewConsoleReporter(out io.Writer, styles Styles) *ConsoleReporter {
	return &ConsoleReporter{out: out, styles: styles}
}

func (r *ConsoleReporter) Report(e ui.Event) {
	var line string
	switch e.Level {
	case ui.LevelStep:
		line = r.styles.Step.Render("→ " + e.Message)
	case ui.LevelSuccess:
		line = r.styles.Success.Render("✔ " + e.Message)
	case ui.LevelWarn:
		line = r.styles.Warn.Render("⚠ " + e.Message)
	case ui.LevelError:
		line = r.styles.Error.Render("✖ " + e.Message)
	default:
		line = r.styles.Info.Render("  " + e.Message)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, line)
}
