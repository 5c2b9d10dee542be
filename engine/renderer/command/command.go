// Package command defines the draw commands components send to the renderer. Commands are
// typed values; Decode and Encode convert them from and to the flat untyped stream
// (opcode followed by its operands) used by external command producers.
package command

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

// Opcode identifies a command in the untyped stream.
type Opcode int

const (
	OpWith Opcode = iota
	OpSetDrawOptions
	OpAmbientLight
	OpLightPosition
	OpLightColor
	OpMaterialInput
	OpSetGeometry
	OpUniforms
	OpBufferData
	OpCutoutState
	OpMeshVisibility
	OpChangeTransform
	OpChangeSize
)

var opcodeNames = [...]string{
	OpWith:            "WITH",
	OpSetDrawOptions:  "GL_SET_DRAW_OPTIONS",
	OpAmbientLight:    "GL_AMBIENT_LIGHT",
	OpLightPosition:   "GL_LIGHT_POSITION",
	OpLightColor:      "GL_LIGHT_COLOR",
	OpMaterialInput:   "MATERIAL_INPUT",
	OpSetGeometry:     "GL_SET_GEOMETRY",
	OpUniforms:        "GL_UNIFORMS",
	OpBufferData:      "GL_BUFFER_DATA",
	OpCutoutState:     "GL_CUTOUT_STATE",
	OpMeshVisibility:  "GL_MESH_VISIBILITY",
	OpChangeTransform: "CHANGE_TRANSFORM",
	OpChangeSize:      "CHANGE_SIZE",
}

// String returns the opcode's name in the untyped stream.
func (o Opcode) String() string {
	if o < 0 || int(o) >= len(opcodeNames) {
		return "UNKNOWN"
	}
	return opcodeNames[o]
}

// ParseOpcode returns the opcode with the given stream name.
func ParseOpcode(name string) (Opcode, bool) {
	for i, n := range opcodeNames {
		if n == name {
			return Opcode(i), true
		}
	}
	return 0, false
}

// Command is one renderer instruction. Every command after a With applies to the render
// path that With named.
type Command interface {
	Opcode() Opcode
}

// Side selects which faces of a mesh are drawn.
type Side int

const (
	// SideFront draws front faces and culls back faces.
	SideFront Side = iota
	// SideBack draws back faces only.
	SideBack
	// SideDouble draws both.
	SideDouble
)

var sideNames = [...]string{SideFront: "front", SideBack: "back", SideDouble: "double"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return "unknown"
	}
	return sideNames[s]
}

// DrawOptions are per mesh GL state toggles.
type DrawOptions struct {
	Blending         bool
	Side             Side
	DisableDepthTest bool
}

type (
	// With scopes the following commands to a render path.
	With struct{ Path string }

	// SetDrawOptions sets the mesh's GL state toggles.
	SetDrawOptions struct{ Options DrawOptions }

	// AmbientLight sets the scene's ambient light color.
	AmbientLight struct{ Color [3]float32 }

	// LightPosition moves the point light at the current path.
	LightPosition struct{ Position [3]float32 }

	// LightColor colors the point light at the current path.
	LightColor struct{ Color [3]float32 }

	// MaterialInput binds a material expression to a mesh input uniform.
	MaterialInput struct {
		Input    string
		Material material.Expression
	}

	// SetGeometry selects the geometry a mesh draws.
	SetGeometry struct {
		GeometryID uint64
		DrawType   geometry.DrawType
		Dynamic    bool
	}

	// Uniforms sets one of the mesh's uniforms.
	Uniforms struct {
		Name  string
		Value any
	}

	// BufferData uploads one buffer of a geometry.
	BufferData struct {
		GeometryID uint64
		Buffer     string
		Values     []float32
		Spacing    int
		Dynamic    bool
	}

	// CutoutState turns the current path's cutout on or off.
	CutoutState struct{ Enabled bool }

	// MeshVisibility shows or hides the mesh at the current path.
	MeshVisibility struct{ Visible bool }

	// ChangeTransform sets the current path's cutout transform, column major.
	ChangeTransform struct{ Transform [16]float32 }

	// ChangeSize sets the current path's cutout size.
	ChangeSize struct{ Size [2]float32 }
)

func (With) Opcode() Opcode            { return OpWith }
func (SetDrawOptions) Opcode() Opcode  { return OpSetDrawOptions }
func (AmbientLight) Opcode() Opcode    { return OpAmbientLight }
func (LightPosition) Opcode() Opcode   { return OpLightPosition }
func (LightColor) Opcode() Opcode      { return OpLightColor }
func (MaterialInput) Opcode() Opcode   { return OpMaterialInput }
func (SetGeometry) Opcode() Opcode     { return OpSetGeometry }
func (Uniforms) Opcode() Opcode        { return OpUniforms }
func (BufferData) Opcode() Opcode      { return OpBufferData }
func (CutoutState) Opcode() Opcode     { return OpCutoutState }
func (MeshVisibility) Opcode() Opcode  { return OpMeshVisibility }
func (ChangeTransform) Opcode() Opcode { return OpChangeTransform }
func (ChangeSize) Opcode() Opcode      { return OpChangeSize }
