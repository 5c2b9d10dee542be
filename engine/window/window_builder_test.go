package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720, vsync: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("demo"),
		WithSize(800, 0),
		WithSizeLimits(100, 50, 1000, 500),
		WithVSync(false),
	} {
		opt(w)
	}

	assert.Equal(t, "demo", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 720, w.Height(), "non-positive sizes keep the default")
	assert.Equal(t, [4]int{100, 50, 1000, 500}, [4]int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
	assert.False(t, w.vsync)

	WithTitle("")(w)
	assert.Equal(t, "demo", w.title, "an empty title keeps the current one")
}

func TestUninitializedWindowIsNotRunning(t *testing.T) {
	w := &engineWindow{}
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
	assert.Nil(t, w.GLContext())
}
