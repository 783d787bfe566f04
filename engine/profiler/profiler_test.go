package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithInterval(time.Millisecond),
	)

	p.lastTime = time.Now().Add(-time.Second)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "frame stats")
	assert.Contains(t, buf.String(), "fps=")
	assert.Zero(t, p.frameCount)
}

func TestTickBeforeIntervalIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithInterval(time.Hour),
	)
	assert.False(t, p.Tick())
	assert.False(t, p.Tick())
	assert.Equal(t, 2, p.frameCount)
	assert.Empty(t, buf.String())
}
