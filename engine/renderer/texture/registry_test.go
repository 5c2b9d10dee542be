package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int) common.TextureStagingData {
	return common.TextureStagingData{Pixels: bytes.Repeat([]byte{0xff, 0, 0, 0xff}, w*h), Width: w, Height: h}
}

func parameter(rec *gltest.Recorder, name gl.Enum) []gl.Enum {
	var out []gl.Enum
	for _, c := range rec.Named("TexParameteri") {
		if c.Args[1] == name {
			out = append(out, c.Args[2].(gl.Enum))
		}
	}
	return out
}

func TestEncodedTextureShowsPlaceholderUntilUpdate(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	defer r.Close()

	desc := NewDescriptor(Encoded{Bytes: encodePNG(t, 3, 5)}, WithMipmaps())
	id := r.Register(desc, 0)
	assert.Equal(t, desc.ID, id)
	assert.False(t, r.Ready(id))

	uploads := rec.Named("TexImage2D")
	require.Len(t, uploads, 1)
	assert.Equal(t, checkerboardSize, uploads[0].Args[1])
	assert.Equal(t, checkerboardSize, uploads[0].Args[2])

	r.Wait()
	rec.Reset()
	r.Update(0)

	assert.True(t, r.Ready(id))
	uploads = rec.Named("TexImage2D")
	require.Len(t, uploads, 1)
	assert.Equal(t, 4, uploads[0].Args[1], "width rescaled to a power of two")
	assert.Equal(t, 8, uploads[0].Args[2], "height rescaled to a power of two")
	assert.Equal(t, 4*8*4, uploads[0].Args[3])
	assert.Equal(t, 1, rec.Count("GenerateMipmap"))
	assert.Equal(t, []gl.Enum{gl.LinearMipmapLinear}, parameter(rec, gl.TextureMinFilter))
}

func TestPixelsUploadImmediately(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)

	id := r.Register(NewDescriptor(Pixels{Data: solid(2, 2)}), 0)

	assert.True(t, r.Ready(id))
	uploads := rec.Named("TexImage2D")
	require.Len(t, uploads, 1)
	assert.Equal(t, 2, uploads[0].Args[1])
}

func TestRegisterSameDescriptorReusesTexture(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)

	desc := NewDescriptor(Pixels{Data: solid(2, 2)})
	first := r.Register(desc, 0)
	second := r.Register(desc, 1)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.Count("CreateTexture"))
	assert.Equal(t, 1, rec.Count("TexImage2D"))
}

func TestBindSkipsRedundantState(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	a := r.Register(NewDescriptor(Pixels{Data: solid(2, 2)}), 0)
	r.Register(NewDescriptor(Pixels{Data: solid(2, 2)}), 1)

	rec.Reset()
	r.Bind(a, 0)
	assert.Equal(t, []string{"ActiveTexture"}, rec.Names(), "texture already bound on unit 0")
	assert.Equal(t, gl.Texture0, rec.Calls[0].Args[0])

	rec.Reset()
	r.Bind(a, 0)
	assert.Empty(t, rec.Calls)

	r.Unbind(0)
	calls := rec.Named("BindTexture")
	require.Len(t, calls, 1)
	assert.Equal(t, gl.Texture(0), calls[0].Args[1])

	rec.Reset()
	r.Unbind(0)
	assert.Empty(t, rec.Calls)
}

func TestDecodeFailureKeepsPlaceholder(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	defer r.Close()

	id := r.Register(NewDescriptor(Encoded{Bytes: []byte("not an image")}), 0)
	r.Wait()
	rec.Reset()
	r.Update(0)

	assert.False(t, r.Ready(id))
	assert.Zero(t, rec.Count("TexImage2D"))
}

type countingFrames struct {
	calls int
}

func (f *countingFrames) Frame() (common.TextureStagingData, bool) {
	f.calls++
	return solid(4, 4), true
}

func TestStreamResamplesAtRate(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	frames := &countingFrames{}
	id := r.Register(NewDescriptor(Stream{Frames: frames}, WithResampleRate(100*time.Millisecond)), 0)
	assert.False(t, r.Ready(id))

	r.Update(0)
	assert.Equal(t, 1, frames.calls)
	assert.True(t, r.Ready(id))

	r.Update(50 * time.Millisecond)
	assert.Equal(t, 1, frames.calls)

	r.Update(100 * time.Millisecond)
	assert.Equal(t, 2, frames.calls)
}

func TestNonPowerOfTwoIsClamped(t *testing.T) {
	rec := gltest.NewRecorder()
	r := NewRegistry(rec)
	r.Register(NewDescriptor(Pixels{Data: solid(3, 3)}, WithWrap(gl.Repeat, gl.Repeat)), 0)

	assert.Equal(t, []gl.Enum{gl.ClampToEdge}, parameter(rec, gl.TextureWrapS))
	assert.Equal(t, []gl.Enum{gl.ClampToEdge}, parameter(rec, gl.TextureWrapT))
}

func TestUnitOutOfRangePanics(t *testing.T) {
	r := NewRegistry(gltest.NewRecorder())
	assert.Panics(t, func() { r.Unbind(Units) })
	assert.Panics(t, func() { r.Unbind(-1) })
	assert.Panics(t, func() { NewRegistry(nil) })
}

func TestCheckerboard(t *testing.T) {
	c := Checkerboard()
	require.True(t, c.Valid())
	assert.True(t, c.PowerOfTwo())
	assert.Equal(t, byte(0xff), c.Pixels[0])
	assert.Equal(t, byte(0xcc), c.Pixels[checkerboardCell*4])
	assert.Equal(t, byte(0xff), c.Pixels[(checkerboardCell*checkerboardSize+checkerboardCell)*4])
}
