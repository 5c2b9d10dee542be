package texture

import (
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Units is the number of texture units a program samples from (u_textures[Units]).
const Units = 7

// DefaultResampleRate is how often a Stream source is polled for a new frame.
const DefaultResampleRate = 16 * time.Millisecond

// Source is where a texture's pixels come from. It is one of Pixels, Encoded, File or Stream.
type Source interface {
	source()
}

// Pixels is raw RGBA data, uploaded as soon as the texture is registered.
type Pixels struct {
	Data common.TextureStagingData
}

// Encoded is image file bytes (PNG, JPEG, BMP or WebP) decoded off the render thread.
type Encoded struct {
	Bytes []byte
}

// File is an image file on disk, read and decoded off the render thread.
type File struct {
	Path string
}

// Stream is a video-like source sampled every ResampleRate.
type Stream struct {
	Frames FrameSource
}

// FrameSource produces frames for a Stream texture.
type FrameSource interface {
	// Frame returns the latest frame and false when nothing new is available.
	//
	// Returns:
	//   - common.TextureStagingData: the frame in RGBA
	//   - bool: whether a frame was produced
	Frame() (common.TextureStagingData, bool)
}

func (Pixels) source()  {}
func (Encoded) source() {}
func (File) source()    {}
func (Stream) source()  {}

// Options are the sampler settings applied on every upload.
type Options struct {
	MinFilter gl.Enum
	MagFilter gl.Enum
	WrapS     gl.Enum
	WrapT     gl.Enum
	// Mipmaps generates a mip chain. Non power of two images are rescaled first.
	Mipmaps bool
	// ResampleRate applies to Stream sources only.
	ResampleRate time.Duration
}

// Descriptor identifies a texture and says how to fill it. Descriptors with the same ID
// share one GL texture.
type Descriptor struct {
	ID      uint64
	Source  Source
	Options Options
}

var nextDescriptorID atomic.Uint64

// NewDescriptor creates a descriptor with a fresh ID.
//
// Parameters:
//   - src: the pixel source
//   - options: variadic list of DescriptorBuilderOption functions
//
// Returns:
//   - Descriptor: the descriptor
func NewDescriptor(src Source, options ...DescriptorBuilderOption) Descriptor {
	d := Descriptor{
		ID:     nextDescriptorID.Add(1),
		Source: src,
		Options: Options{
			MinFilter:    gl.Linear,
			MagFilter:    gl.Linear,
			WrapS:        gl.ClampToEdge,
			WrapT:        gl.ClampToEdge,
			ResampleRate: DefaultResampleRate,
		},
	}
	for _, opt := range options {
		opt(&d)
	}
	return d
}
