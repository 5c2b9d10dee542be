package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

type manualTime struct{ t time.Time }

func (m *manualTime) now() time.Time { return m.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	clock := &manualTime{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(500*time.Millisecond), WithTimeSource(clock.now))

	for i := 0; i < 9; i++ {
		clock.t = clock.t.Add(50 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	p.RecordDrawError()
	clock.t = clock.t.Add(50 * time.Millisecond)
	assert.True(t, p.Tick())

	assert.InDelta(t, 20, p.Last().FPS, 1e-9)
	assert.Equal(t, 1, p.Last().DrawErrors)
	assert.Contains(t, buf.String(), "component=profiler")
	assert.Contains(t, buf.String(), "fps=20")

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.False(t, p.Tick(), "counters reset after a report")
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithTimeSource(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.now)
}
