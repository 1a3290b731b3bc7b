package ui

import (
	"fmt"
	"log"
	"sync"
)

type Level string

const (
	LevelStep    Level = "step"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

type Event struct {
	Level   Level
	Message string
}

// Reporter receives progress events from a generation run.
type Reporter interface {
	Report(event Event)
}

// LogReporter writes events through a *log.Logger (log.Default when nil).
type LogReporter struct {
	Logger *log.Logger
	Prefix string
}

func (r LogReporter) Report(e Event) {
	l := r.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf("%s%s: %s", r.Prefix, e.Level, e.Message)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Report(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Messages returns the messages recorded at level.
func (r *Recorder) Messages(level Level) []string {
	var out []string
	for _, e := range r.Events() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func sendf(r Reporter, level Level, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(Event{Level: level, Message: fmt.Sprintf(format, args...)})
}
