package app

import (
	"strings"
	"sync"
)

// logBuffer keeps the most recent log lines for the log pane. It is the
// io.Writer the global logger writes into.
type logBuffer struct {
	mu       sync.Mutex
	lines    []string
	limit    int
	onChange func()
}

func newLogBuffer(limit int) *logBuffer {
	return &logBuffer{limit: limit}
}

func (l *logBuffer) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	l.mu.Lock()
	for _, part := range strings.Split(text, "\n") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	notify := l.onChange
	l.mu.Unlock()
	if notify != nil {
		notify()
	}
	return len(p), nil
}

func (l *logBuffer) setOnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
