// Package terminal keeps the short, scrolling session log shown next to
// strategy reports.
package terminal

import (
	"fmt"
	"sync"
)

// DefaultCapacity is the number of lines kept when NewLog is given zero.
const DefaultCapacity = 50

// Progress lines written around a strategy request.
const (
	LineQuerying = "> Querying Neural Network for optimal strategies..."
	LineReceived = "> Strategy report received from AI."
)

// Log is a bounded line buffer. Once full, each Add drops the oldest line.
// The zero value is ready to use with DefaultCapacity. It is safe for
// concurrent use.
type Log struct {
	mu    sync.Mutex
	lines []string
	start int
	count int
}

// NewLog creates a Log holding at most capacity lines.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{lines: make([]string, capacity)}
}

// Add appends line verbatim.
func (l *Log) Add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.init()
	idx := (l.start + l.count) % len(l.lines)
	l.lines[idx] = line
	if l.count < len(l.lines) {
		l.count++
		return
	}
	l.start = (l.start + 1) % len(l.lines)
}

// Addf appends a line formatted with fmt.Sprintf.
func (l *Log) Addf(format string, args ...interface{}) {
	l.Add(fmt.Sprintf(format, args...))
}

// Lines returns the buffered lines, oldest first.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.lines[(l.start+i)%len(l.lines)]
	}
	return out
}

// Len returns the number of buffered lines.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Cap returns the maximum number of lines kept.
func (l *Log) Cap() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.init()
	return len(l.lines)
}

// init allocates the buffer of a zero Log. Callers hold mu.
func (l *Log) init() {
	if len(l.lines) == 0 {
		l.lines = make([]string, DefaultCapacity)
	}
}
