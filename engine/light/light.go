// Package light provides the Light component. A light contributes to every lit mesh through
// the renderer's global light uniforms.
package light

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment evenly. The scene has one ambient color; the
	// last ambient light cleaned wins.
	LightTypeAmbient LightType = iota

	// LightTypePoint emits in all directions from the node's world position. The renderer
	// evaluates at most four point lights.
	LightTypePoint
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypePoint:
		return "point"
	}
	return "unknown"
}

// Node is the scene node a Light is attached to.
type Node interface {
	// Path returns the node's render path, the key commands are scoped to.
	Path() string

	// AddComponent registers a component with the node's scheduler and returns its slot id.
	AddComponent(component any) int

	// RequestUpdate schedules the component's Clean for the current tick.
	RequestUpdate(id int)

	// RequestUpdateOnNextTick schedules the component's Clean for the following tick.
	RequestUpdateOnNextTick(id int)
}

// Color is a possibly animated color.
type Color interface {
	// NormalizedRGB returns the current components in [0, 1].
	NormalizedRGB() [3]float64

	// IsActive reports whether the color is animating.
	IsActive() bool
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	node  Node
	queue command.Queue
	id    int
	dirty bool

	lightType   LightType
	color       Color
	colorActive bool
	intensity   float64
	enabled     bool
	position    [3]float32

	colorChanged    bool
	positionChanged bool
}

// Light defines the interface for a light source in the scene.
//
// Changes are recorded and sent to the renderer by the next Clean. A light whose color is
// animating stays subscribed to the scheduler and re-sends its color every tick.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Color returns the light's color collaborator.
	Color() Color

	// SetColor sets the light's color.
	//
	// Parameters:
	//   - c: the color, possibly animated
	SetColor(c Color)

	// Intensity returns the multiplier applied to the color.
	Intensity() float64

	// SetIntensity sets the multiplier applied to the color.
	//
	// Parameters:
	//   - intensity: the multiplier
	SetIntensity(intensity float64)

	// Enabled returns whether this light contributes to rendering.
	Enabled() bool

	// SetEnabled enables or disables the light. A disabled light is sent as black.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the world position of a point light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// OnTransformChange takes a point light's position from the node's world transform.
	// Ambient lights ignore it.
	//
	// Parameters:
	//   - m: the world transform, column major
	OnTransformChange(m [16]float32)

	// Clean sends the changed color and position.
	//
	// Returns:
	//   - bool: true while the color is animating
	Clean() bool

	// Kill turns the light off on the renderer.
	Kill()

	// ID returns the slot id the node assigned to the light.
	ID() int
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type, attaches it to node and queues its
// initial state. Panics if node or queue is nil.
//
// Parameters:
//   - node: the node the light belongs to
//   - queue: the queue commands are pushed to
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(node Node, queue command.Queue, lightType LightType, opts ...LightBuilderOption) Light {
	if node == nil || queue == nil {
		panic("light: NewLight requires a node and a command queue")
	}
	l := &lightImpl{
		node:      node,
		queue:     queue,
		lightType: lightType,
		color:     white{},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.id = node.AddComponent(l)
	l.colorChanged = true
	l.positionChanged = lightType == LightTypePoint
	l.requestUpdate()
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Color() Color {
	return l.color
}

func (l *lightImpl) SetColor(c Color) {
	if c == nil {
		return
	}
	l.color = c
	l.colorChanged = true
	l.requestUpdate()
}

func (l *lightImpl) Intensity() float64 {
	return l.intensity
}

func (l *lightImpl) SetIntensity(intensity float64) {
	l.intensity = intensity
	l.colorChanged = true
	l.requestUpdate()
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	if l.enabled == enabled {
		return
	}
	l.enabled = enabled
	l.colorChanged = true
	l.requestUpdate()
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) OnTransformChange(m [16]float32) {
	if l.lightType != LightTypePoint {
		return
	}
	p := [3]float32{m[12], m[13], m[14]}
	if p == l.position {
		return
	}
	l.position = p
	l.positionChanged = true
	l.requestUpdate()
}

func (l *lightImpl) Clean() bool {
	active := l.color.IsActive()
	var cmds []command.Command
	if l.colorChanged || active || l.colorActive {
		cmds = append(cmds, l.colorCommand(l.rgb()))
	}
	if l.positionChanged {
		cmds = append(cmds, command.LightPosition{Position: l.position})
	}
	l.colorActive = active
	l.colorChanged = false
	l.positionChanged = false

	if len(cmds) > 0 {
		l.queue.Push(command.With{Path: l.node.Path()})
		l.queue.Push(cmds...)
	}

	if active {
		l.node.RequestUpdateOnNextTick(l.id)
	} else {
		l.dirty = false
	}
	return active
}

func (l *lightImpl) Kill() {
	l.queue.Push(command.With{Path: l.node.Path()}, l.colorCommand([3]float32{}))
}

func (l *lightImpl) ID() int {
	return l.id
}

// rgb is the color sent to the renderer: the collaborator's color scaled by the intensity,
// or black while disabled.
func (l *lightImpl) rgb() [3]float32 {
	if !l.enabled {
		return [3]float32{}
	}
	c := l.color.NormalizedRGB()
	return [3]float32{
		float32(c[0] * l.intensity),
		float32(c[1] * l.intensity),
		float32(c[2] * l.intensity),
	}
}

func (l *lightImpl) colorCommand(rgb [3]float32) command.Command {
	if l.lightType == LightTypeAmbient {
		return command.AmbientLight{Color: rgb}
	}
	return command.LightColor{Color: rgb}
}

func (l *lightImpl) requestUpdate() {
	if l.dirty {
		return
	}
	l.dirty = true
	l.node.RequestUpdate(l.id)
}

// white is the default light color.
type white struct{}

func (white) NormalizedRGB() [3]float64 { return [3]float64{1, 1, 1} }
func (white) IsActive() bool            { return false }
