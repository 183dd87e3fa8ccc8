package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapturingLogger(t *testing.T) {
	l := &CapturingLogger{}
	l.Printf("hello %s", "world")
	l.Printf("n=%d", 2)

	assert.Equal(t, []string{"hello world", "n=2"}, l.Messages())
	assert.Len(t, l.Output(), 2)
}

func TestNew_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Printf("GET %s", "/jobs")
	assert.Contains(t, buf.String(), "GET /jobs")
}

func TestNullLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NullLogger().Printf("ignored %d", 1)
	})
}
