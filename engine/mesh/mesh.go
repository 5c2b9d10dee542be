// Package mesh provides the Mesh component, which describes a drawable surface of a scene node
// to the renderer by emitting draw commands.
package mesh

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// Node is the scene node a Mesh is attached to.
type Node interface {
	// Path returns the node's render path, the key commands are scoped to.
	Path() string

	// AddComponent registers a component with the node's scheduler.
	//
	// Parameters:
	//   - component: the component to register
	//
	// Returns:
	//   - int: the slot id used for update requests
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

// mesh is the implementation of the Mesh interface.
type mesh struct {
	node    Node
	queue   command.Queue
	library *geometry.Library
	id      int
	dirty   bool
	pending []command.Command

	geometry geometry.Geometry

	baseColor       Color
	baseColorActive bool
	gloss           Color
	glossStrength   float64
	glossActive     bool

	opacity float64
	visible bool
}

// Mesh gives a node a surface. Setters record commands that the next Clean pushes to the
// command queue, scoped to the node's path. A mesh stays subscribed to the scheduler while
// one of its colors animates.
type Mesh interface {
	// SetGeometry selects the geometry the mesh draws. Its buffers are uploaded on the next
	// Clean and whenever they are invalidated afterwards.
	//
	// Parameters:
	//   - g: the geometry
	SetGeometry(g geometry.Geometry)

	// SetGeometryName selects a geometry by its name in the mesh's library.
	//
	// Parameters:
	//   - name: the geometry name, such as "Box"
	//
	// Returns:
	//   - error: geometry.ErrUnknownGeometry if the library has no such geometry
	SetGeometryName(name string) error

	// Geometry returns the current geometry, or nil.
	Geometry() geometry.Geometry

	// SetBaseColor sets a flat base color. An animating color is re-sent every tick.
	//
	// Parameters:
	//   - c: the color
	SetBaseColor(c Color)

	// SetBaseColorMaterial computes the base color with a material expression.
	//
	// Parameters:
	//   - expr: the material, returning a vec4
	SetBaseColorMaterial(expr material.Expression)

	// BaseColor returns the flat base color, or nil if none or a material is set.
	BaseColor() Color

	// SetGlossiness sets the specular color and its strength.
	//
	// Parameters:
	//   - c: the specular color
	//   - strength: the specular exponent
	SetGlossiness(c Color, strength float64)

	// SetGlossinessMaterial computes the glossiness with a material expression.
	//
	// Parameters:
	//   - expr: the material, returning a vec4 whose alpha is the strength
	SetGlossinessMaterial(expr material.Expression)

	// SetMetalness sets how much of the surface color tints reflections, in [0, 1].
	SetMetalness(v float64)

	// SetMetalnessMaterial computes the metalness with a material expression.
	//
	// Parameters:
	//   - expr: the material, returning a float
	SetMetalnessMaterial(expr material.Expression)

	// SetNormals replaces the geometry normals with a material expression.
	//
	// Parameters:
	//   - expr: the material, returning a vec3
	SetNormals(expr material.Expression)

	// SetPositionOffset displaces vertices by a material expression.
	//
	// Parameters:
	//   - expr: the material, returning a vec3
	SetPositionOffset(expr material.Expression)

	// SetFlatShading toggles lighting off for the mesh.
	SetFlatShading(flat bool)

	// SetOpacity sets the mesh opacity. Values below 1 draw the mesh blended without
	// depth writes.
	SetOpacity(v float64)

	// Opacity returns the mesh opacity.
	Opacity() float64

	// SetDrawOptions sets per mesh GL state toggles.
	SetDrawOptions(opts command.DrawOptions)

	// SetVisible shows or hides the mesh.
	SetVisible(visible bool)

	// Visible reports whether the mesh is shown.
	Visible() bool

	// OnTransformChange forwards the node's world transform, column major.
	OnTransformChange(m [16]float32)

	// OnSizeChange forwards the node's size.
	OnSizeChange(x, y, z float64)

	// Clean pushes the pending commands and drains geometry invalidations.
	//
	// Returns:
	//   - bool: true while a color is animating or the geometry is dynamic
	Clean() bool

	// Kill hides the mesh on the renderer.
	Kill()

	// ID returns the slot id the node assigned to the mesh.
	ID() int
}

var _ Mesh = &mesh{}

// NewMesh creates a mesh, attaches it to node and queues its initial visibility.
// Panics if node or queue is nil.
//
// Parameters:
//   - node: the node the mesh draws for
//   - queue: the queue commands are pushed to
//   - options: variadic list of MeshBuilderOption functions
//
// Returns:
//   - Mesh: a new mesh
func NewMesh(node Node, queue command.Queue, options ...MeshBuilderOption) Mesh {
	if node == nil || queue == nil {
		panic("mesh: NewMesh requires a node and a command queue")
	}
	m := &mesh{
		node:    node,
		queue:   queue,
		opacity: 1,
		visible: true,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.library == nil {
		m.library = geometry.DefaultLibrary()
	}
	m.id = node.AddComponent(m)
	m.emit(command.MeshVisibility{Visible: m.visible})
	return m
}

func (m *mesh) SetGeometry(g geometry.Geometry) {
	if g == nil || g == m.geometry {
		return
	}
	m.geometry = g
	m.emit(command.SetGeometry{GeometryID: g.ID(), DrawType: g.DrawType(), Dynamic: g.Dynamic()})
}

func (m *mesh) SetGeometryName(name string) error {
	g, err := m.library.Resolve(name)
	if err != nil {
		return err
	}
	m.SetGeometry(g)
	return nil
}

func (m *mesh) Geometry() geometry.Geometry {
	return m.geometry
}

func (m *mesh) SetBaseColor(c Color) {
	if c == nil {
		return
	}
	m.baseColor = c
	m.baseColorActive = false
	m.emit(baseColor(c))
}

func (m *mesh) SetBaseColorMaterial(expr material.Expression) {
	m.baseColor = nil
	m.emit(command.MaterialInput{Input: "u_baseColor", Material: expr})
}

func (m *mesh) BaseColor() Color {
	return m.baseColor
}

func (m *mesh) SetGlossiness(c Color, strength float64) {
	if c == nil {
		return
	}
	m.gloss = c
	m.glossStrength = strength
	m.glossActive = false
	m.emit(glossiness(c, strength))
}

func (m *mesh) SetGlossinessMaterial(expr material.Expression) {
	m.gloss = nil
	m.emit(command.MaterialInput{Input: "u_glossiness", Material: expr})
}

func (m *mesh) SetMetalness(v float64) {
	m.emit(command.Uniforms{Name: "u_metalness", Value: float32(v)})
}

func (m *mesh) SetMetalnessMaterial(expr material.Expression) {
	m.emit(command.MaterialInput{Input: "u_metalness", Material: expr})
}

func (m *mesh) SetNormals(expr material.Expression) {
	m.emit(command.MaterialInput{Input: "u_normals", Material: expr})
}

func (m *mesh) SetPositionOffset(expr material.Expression) {
	m.emit(command.MaterialInput{Input: "u_positionOffset", Material: expr})
}

func (m *mesh) SetFlatShading(flat bool) {
	var v float32
	if flat {
		v = 1
	}
	m.emit(command.Uniforms{Name: "u_flatShading", Value: v})
}

func (m *mesh) SetOpacity(v float64) {
	m.opacity = v
	m.emit(command.Uniforms{Name: "u_opacity", Value: float32(v)})
}

func (m *mesh) Opacity() float64 {
	return m.opacity
}

func (m *mesh) SetDrawOptions(opts command.DrawOptions) {
	m.emit(command.SetDrawOptions{Options: opts})
}

func (m *mesh) SetVisible(visible bool) {
	m.visible = visible
	m.emit(command.MeshVisibility{Visible: visible})
}

func (m *mesh) Visible() bool {
	return m.visible
}

func (m *mesh) OnTransformChange(t [16]float32) {
	m.emit(command.Uniforms{Name: "u_transform", Value: t})
}

func (m *mesh) OnSizeChange(x, y, z float64) {
	m.emit(command.Uniforms{Name: "u_size", Value: []float32{float32(x), float32(y), float32(z)}})
}

func (m *mesh) Clean() bool {
	// An animating color is sent every tick, plus once after it settles.
	if m.baseColor != nil {
		active := m.baseColor.IsActive()
		if active || m.baseColorActive {
			m.pending = append(m.pending, baseColor(m.baseColor))
		}
		m.baseColorActive = active
	}
	if m.gloss != nil {
		active := m.gloss.IsActive()
		if active || m.glossActive {
			m.pending = append(m.pending, glossiness(m.gloss, m.glossStrength))
		}
		m.glossActive = active
	}

	if g := m.geometry; g != nil {
		buffers := g.Buffers()
		for _, i := range g.DrainInvalidations() {
			b := buffers[i]
			m.pending = append(m.pending, command.BufferData{
				GeometryID: g.ID(),
				Buffer:     b.Name,
				Values:     b.Values,
				Spacing:    b.Size,
				Dynamic:    g.Dynamic(),
			})
		}
	}

	if len(m.pending) > 0 {
		m.queue.Push(command.With{Path: m.node.Path()})
		m.queue.Push(m.pending...)
		m.pending = nil
	}

	// dynamic geometry is polled for invalidations every tick
	animating := m.baseColorActive || m.glossActive || (m.geometry != nil && m.geometry.Dynamic())
	if animating {
		m.node.RequestUpdateOnNextTick(m.id)
	} else {
		m.dirty = false
	}
	return animating
}

func (m *mesh) Kill() {
	m.queue.Push(command.With{Path: m.node.Path()}, command.MeshVisibility{Visible: false})
	m.pending = nil
}

func (m *mesh) ID() int {
	return m.id
}

// emit records a command for the next Clean and subscribes the mesh to the scheduler.
func (m *mesh) emit(cmd command.Command) {
	m.pending = append(m.pending, cmd)
	if m.dirty {
		return
	}
	m.dirty = true
	m.node.RequestUpdate(m.id)
}

func baseColor(c Color) command.Command {
	rgb := c.NormalizedRGB()
	return command.Uniforms{
		Name:  "u_baseColor",
		Value: []float32{float32(rgb[0]), float32(rgb[1]), float32(rgb[2]), 1},
	}
}

func glossiness(c Color, strength float64) command.Command {
	rgb := c.NormalizedRGB()
	return command.Uniforms{
		Name:  "u_glossiness",
		Value: []float32{float32(rgb[0]), float32(rgb[1]), float32(rgb[2]), float32(strength)},
	}
}
