package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
)

// uniformSet is an ordered list of uniform names and values uploaded together.
type uniformSet struct {
	names  []string
	values []any
}

func (u *uniformSet) get(name string) (any, bool) {
	if i := slices.Index(u.names, name); i >= 0 {
		return u.values[i], true
	}
	return nil, false
}

func (u *uniformSet) set(name string, value any) {
	if i := slices.Index(u.names, name); i >= 0 {
		u.values[i] = value
		return
	}
	u.names = append(u.names, name)
	u.values = append(u.values, value)
}

// scalar returns the first component of a uniform, or fallback if it is absent.
func (u *uniformSet) scalar(name string, fallback float32) float32 {
	v, ok := u.get(name)
	if !ok {
		return fallback
	}
	values, ok := program.Floats(v)
	if !ok || len(values) == 0 {
		return fallback
	}
	return values[0]
}

// component returns component i of a uniform, or 0 if it is absent or shorter.
func (u *uniformSet) component(name string, i int) float32 {
	v, ok := u.get(name)
	if !ok {
		return 0
	}
	values, ok := program.Floats(v)
	if !ok || i >= len(values) {
		return 0
	}
	return values[i]
}

// meshTexture is a texture a mesh's materials sample and the unit it is bound to.
type meshTexture struct {
	id   uint64
	unit int
}

// meshRecord is the renderer's retained state for one mesh path.
type meshRecord struct {
	uniformSet
	path        string
	geometryID  uint64
	hasGeometry bool
	drawType    geometry.DrawType
	options     command.DrawOptions
	visible     bool
	textures    []meshTexture
}

func newMeshRecord(path string) *meshRecord {
	return &meshRecord{
		path:    path,
		visible: true,
		uniformSet: uniformSet{
			names: []string{
				"u_opacity", "u_transform", "u_size", "u_baseColor", "u_positionOffset",
				"u_normals", "u_flatShading", "u_glossiness", "u_metalness",
			},
			values: []any{
				float32(1), common.IdentityMatrix(), []float32{0, 0, 0}, []float32{0.5, 0.5, 0.5, 1},
				[]float32{0, 0, 0}, []float32{0, 0, 0}, float32(0), []float32{0, 0, 0, 0}, float32(0),
			},
		},
	}
}

// depth is the mesh's translation along z, the key meshes are sorted by before drawing.
func (m *meshRecord) depth() float32 {
	return m.component("u_transform", 14)
}

// bindTexture records a texture for a unit, replacing whatever the unit held.
func (m *meshRecord) bindTexture(id uint64, unit int) {
	for i := range m.textures {
		if m.textures[i].unit == unit {
			m.textures[i].id = id
			return
		}
	}
	m.textures = append(m.textures, meshTexture{id: id, unit: unit})
}

// cutoutRecord is a quad that punches a transparent hole through the canvas so content
// layered behind it shows through.
type cutoutRecord struct {
	uniformSet
	path    string
	enabled bool
}

func newCutoutRecord(path string) *cutoutRecord {
	return &cutoutRecord{
		path: path,
		uniformSet: uniformSet{
			names:  []string{"u_transform", "u_size", "u_opacity", "u_positionOffset", "u_normals"},
			values: []any{common.IdentityMatrix(), []float32{0, 0, 0}, float32(1), []float32{0, 0, 0}, []float32{0, 0, 0}},
		},
	}
}
