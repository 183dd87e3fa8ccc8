// Package logging provides the minimal logger used for debug traces.
package logging

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

type Logger interface {
	Printf(message string, args ...any)
}

// New returns a Logger writing timestamped lines to w.
func New(w io.Writer) Logger {
	return log.New(w, "", log.LstdFlags)
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...any) {}

// NullLogger discards everything.
func NullLogger() Logger {
	return nullLogger{}
}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturingLogger keeps every message in memory, for tests.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...any) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() []CapturedMessage {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Messages returns only the message text of everything captured so far.
func (l *CapturingLogger) Messages() []string {
	out := l.Output()
	msgs := make([]string, len(out))
	for i, m := range out {
		msgs[i] = m.Message
	}
	return msgs
}
