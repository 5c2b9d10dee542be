package renderer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*gltest.Recorder, Renderer) {
	t.Helper()
	rec := gltest.NewRecorder()
	r := NewRenderer(rec, options...)
	t.Cleanup(r.Close)
	return rec, r
}

func translation(z float32) [16]float32 {
	m := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	m[14] = z
	return m
}

// meshCommands describes a mesh with a three vertex triangle at depth z.
func meshCommands(path string, geometryID uint64, z float32) []command.Command {
	return []command.Command{
		command.With{Path: path},
		command.SetGeometry{GeometryID: geometryID, DrawType: geometry.DrawTriangles},
		command.BufferData{GeometryID: geometryID, Buffer: geometry.BufferPositions, Values: make([]float32, 9), Spacing: 3},
		command.Uniforms{Name: "u_transform", Value: translation(z)},
	}
}

// uniformOrder lists the uniforms uploaded, in order.
func uniformOrder(rec *gltest.Recorder) []string {
	var out []string
	for _, c := range rec.Calls {
		if !strings.HasPrefix(c.Name, "Uniform") {
			continue
		}
		out = append(out, rec.UniformName(c.Args[0].(gl.UniformLocation)))
	}
	return out
}

func lastUpload(t *testing.T, rec *gltest.Recorder, name string) any {
	t.Helper()
	calls := rec.UniformCalls(name)
	require.NotEmpty(t, calls, name)
	return calls[len(calls)-1].Args[1]
}

func TestRadixSortMatchesStableSort(t *testing.T) {
	type key struct {
		depth float32
		index int
	}
	rng := rand.New(rand.NewPCG(1, 2))
	keys := make([]key, 500)
	for i := range keys {
		// Few distinct values so stability is exercised.
		keys[i] = key{depth: float32(rng.IntN(40)-20) * 0.75, index: i}
	}
	keys[3].depth = float32(negativeZero())
	keys[4].depth = 0

	got := RadixSort(keys, func(k key) float32 { return k.depth })

	want := slices.Clone(keys)
	sort.SliceStable(want, func(i, j int) bool { return want[i].depth < want[j].depth })
	assert.Equal(t, want, got)
	assert.Equal(t, 0, keys[0].index, "input must not be reordered")
}

func negativeZero() float64 {
	z := 0.0
	return -z
}

func TestRadixSortSmallInputs(t *testing.T) {
	assert.Empty(t, RadixSort(nil, func(f float32) float32 { return f }))
	assert.Equal(t, []float32{3}, RadixSort([]float32{3}, func(f float32) float32 { return f }))
	assert.Equal(t, []float32{-1e9, -2, 0, 1.5, 7e20},
		RadixSort([]float32{7e20, 0, -2, 1.5, -1e9}, func(f float32) float32 { return f }))
}

func TestReceiveRequiresPath(t *testing.T) {
	_, r := newTestRenderer(t)
	err := r.Receive([]command.Command{command.MeshVisibility{Visible: false}})
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestReceiveStream(t *testing.T) {
	_, r := newTestRenderer(t)
	require.NoError(t, r.ReceiveStream([]any{"WITH", "a", "GL_MESH_VISIBILITY", false}))
	assert.ErrorIs(t, r.ReceiveStream([]any{"WITH"}), command.ErrMalformed)
}

func TestDrawOrder(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive(meshCommands("near", 1, 5)))
	require.NoError(t, r.Receive(meshCommands("far", 2, -3)))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{Time: 1500 * time.Millisecond}))

	names := rec.Names()
	clear := slices.Index(names, "Clear")
	firstUniform := slices.IndexFunc(names, func(n string) bool { return strings.HasPrefix(n, "Uniform") })
	firstDraw := slices.Index(names, "DrawArrays")
	require.True(t, clear >= 0 && firstUniform >= 0 && firstDraw >= 0)
	assert.Less(t, slices.Index(names, "BufferData"), clear, "buffers flush before clearing")
	assert.Less(t, clear, firstUniform)
	assert.Less(t, firstUniform, firstDraw)

	assert.Equal(t, globalUniforms, uniformOrder(rec)[:len(globalUniforms)])
	assert.Equal(t, float32(1.5), lastUpload(t, rec, "u_time"))

	transforms := rec.UniformCalls("u_transform")
	require.Len(t, transforms, 2)
	assert.Equal(t, float32(-3), transforms[0].Args[1].([]float32)[14])
	assert.Equal(t, float32(5), transforms[1].Args[1].([]float32)[14])
	assert.Equal(t, 2, rec.Count("DrawArrays"))
}

func TestOpacityTogglesBlendAndDepthMask(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive(meshCommands("m", 1, 0)))
	require.NoError(t, r.Receive([]command.Command{command.Uniforms{Name: "u_opacity", Value: 0.5}}))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []gltest.Call{{Name: "DepthMask", Args: []any{false}}}, rec.Named("DepthMask"))
	assert.Contains(t, rec.Named("Enable"), gltest.Call{Name: "Enable", Args: []any{gl.Blend}})

	require.NoError(t, r.Receive([]command.Command{command.Uniforms{Name: "u_opacity", Value: float32(1)}}))
	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []gltest.Call{{Name: "DepthMask", Args: []any{true}}}, rec.Named("DepthMask"))
	assert.Contains(t, rec.Named("Disable"), gltest.Call{Name: "Disable", Args: []any{gl.Blend}})
}

func TestMeshesWithoutBuffersOrHiddenAreSkipped(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive([]command.Command{
		command.With{Path: "empty"},
		command.SetGeometry{GeometryID: 40, DrawType: geometry.DrawTriangles},
		command.With{Path: "nogeometry"},
		command.Uniforms{Name: "u_opacity", Value: 0.3},
	}))
	require.NoError(t, r.Receive(meshCommands("hidden", 41, 0)))
	require.NoError(t, r.Receive([]command.Command{command.MeshVisibility{Visible: false}}))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Zero(t, rec.Count("DrawArrays"))
	assert.Zero(t, rec.Count("DrawElements"))
	assert.Empty(t, rec.UniformCalls("u_opacity"))
}

func TestSharedGeometrySetsUpAttributesOnce(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive(meshCommands("a", 7, 0)))
	require.NoError(t, r.Receive([]command.Command{
		command.With{Path: "b"},
		command.SetGeometry{GeometryID: 7, DrawType: geometry.DrawTriangles},
	}))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []gltest.Call{{Name: "VertexAttribPointer", Args: []any{uint32(0), 3, gl.Float, false, 0, 0}}},
		rec.Named("VertexAttribPointer"))
	assert.Equal(t, 1, rec.Count("EnableVertexAttribArray"))
	assert.Equal(t, []gltest.Call{
		{Name: "DrawArrays", Args: []any{gl.Triangles, 0, 3}},
		{Name: "DrawArrays", Args: []any{gl.Triangles, 0, 3}},
	}, rec.Named("DrawArrays"))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Zero(t, rec.Count("VertexAttribPointer"), "the last drawn geometry keeps its pointers across frames")
	assert.Zero(t, rec.Count("BindBuffer"))
}

func TestIndexedGeometryDrawsElements(t *testing.T) {
	rec, r := newTestRenderer(t)
	for i, id := range []uint64{1, 2} {
		cmds := meshCommands(fmt.Sprintf("m%d", id), id, float32(i))
		cmds = append(cmds,
			command.SetGeometry{GeometryID: id, DrawType: geometry.DrawTriangleStrip},
			command.BufferData{GeometryID: id, Buffer: geometry.BufferIndices, Values: []float32{0, 1, 2}, Spacing: 1},
		)
		require.NoError(t, r.Receive(cmds))
	}

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))

	pointers := rec.Named("VertexAttribPointer")
	require.Len(t, pointers, 2)
	assert.Equal(t, 4*9, pointers[1].Args[5], "second geometry starts after the first in the shared pool")
	assert.Equal(t, []gltest.Call{
		{Name: "DrawElements", Args: []any{gl.TriangleStrip, 3, gl.UnsignedShort, 0}},
		{Name: "DrawElements", Args: []any{gl.TriangleStrip, 3, gl.UnsignedShort, 2 * 3}},
	}, rec.Named("DrawElements"))
}

func TestUnusedAttributesAreDisabled(t *testing.T) {
	rec, r := newTestRenderer(t)
	cmds := meshCommands("textured", 1, 0)
	cmds = append(cmds, command.BufferData{GeometryID: 1, Buffer: geometry.BufferTexCoords, Values: make([]float32, 6), Spacing: 2})
	require.NoError(t, r.Receive(cmds))
	require.NoError(t, r.Receive(meshCommands("plain", 2, 1)))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []gltest.Call{{Name: "DisableVertexAttribArray", Args: []any{uint32(1)}}},
		rec.Named("DisableVertexAttribArray"))
}

func TestLightsArePackedAndCapped(t *testing.T) {
	rec, r := newTestRenderer(t)
	var cmds []command.Command
	for i := 0; i < MaxLights+1; i++ {
		f := float32(i + 1)
		cmds = append(cmds,
			command.With{Path: fmt.Sprintf("light/%d", i)},
			command.LightPosition{Position: [3]float32{f, f * 10, f * 100}},
			command.LightColor{Color: [3]float32{f / 10, 0, 1}},
		)
	}
	cmds = append(cmds, command.AmbientLight{Color: [3]float32{0.1, 0.2, 0.3}})
	require.NoError(t, r.Receive(cmds))

	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, float32(MaxLights), lastUpload(t, rec, "u_numLights"))
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, lastUpload(t, rec, "u_ambientLight"))

	positions := lastUpload(t, rec, "u_lightPosition").([]float32)
	require.Len(t, positions, 16)
	assert.Equal(t, []float32{1, 10, 100, 0}, positions[0:4])
	assert.Equal(t, []float32{4, 40, 400, 0}, positions[12:16])
	colors := lastUpload(t, rec, "u_lightColor").([]float32)
	assert.Equal(t, []float32{0.2, 0, 1, 0}, colors[4:8])
}

func TestCutouts(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive([]command.Command{
		command.With{Path: "dom/0"},
		command.ChangeSize{Size: [2]float32{10, 20}},
		command.CutoutState{Enabled: true},
		command.ChangeTransform{Transform: translation(2)},
	}))
	require.NoError(t, r.Receive(meshCommands("mesh", 9, 0)))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))

	cutoutOn := slices.IndexFunc(rec.Calls, func(c gltest.Call) bool {
		return c.Name == "Uniform1f" && rec.UniformName(c.Args[0].(gl.UniformLocation)) == "u_cutout" && c.Args[1] == float32(1)
	})
	quad := slices.Index(rec.Names(), "DrawElements")
	mesh := slices.Index(rec.Names(), "DrawArrays")
	require.True(t, cutoutOn >= 0 && quad >= 0 && mesh >= 0)
	assert.Less(t, cutoutOn, quad)
	assert.Less(t, quad, mesh, "cutouts draw before meshes")

	assert.Equal(t, []gltest.Call{
		{Name: "BlendFunc", Args: []any{gl.Zero, gl.OneMinusSrcAlpha}},
		{Name: "BlendFunc", Args: []any{gl.SrcAlpha, gl.OneMinusSrcAlpha}},
	}, rec.Named("BlendFunc"))
	assert.Equal(t, []any{gl.Triangles, 6, gl.UnsignedShort, 0}, rec.Named("DrawElements")[0].Args)
	assert.Equal(t, []float32{10, 20, 1}, rec.UniformCalls("u_size")[0].Args[1])
	assert.Equal(t, float32(0), lastUpload(t, rec, "u_cutout"))

	require.NoError(t, r.Receive([]command.Command{command.With{Path: "dom/0"}, command.CutoutState{Enabled: false}}))
	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Zero(t, rec.Count("DrawElements"))
}

func TestMaterialInputs(t *testing.T) {
	rec, r := newTestRenderer(t)
	color := material.Color(1, 0, 0, 1)
	shine := material.Value("u_shine", 0.4)
	cmds := append(meshCommands("m", 1, 0),
		command.MaterialInput{Input: "u_baseColor", Material: color},
		command.MaterialInput{Input: "u_metalness", Material: shine},
	)
	require.NoError(t, r.Receive(cmds))

	_, fragment := r.Program().Sources()
	assert.Contains(t, fragment, fmt.Sprintf("fa_%d()", color.ID()))
	assert.Contains(t, fragment, fmt.Sprintf("fa_%d()", shine.ID()))

	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []float32{float32(-color.ID()), 0.5, 0.5, 1}, lastUpload(t, rec, "u_baseColor"))
	assert.Equal(t, float32(-shine.ID()), lastUpload(t, rec, "u_metalness"))
}

func TestMaterialInputRejectsUnknownInput(t *testing.T) {
	_, r := newTestRenderer(t)
	err := r.Receive([]command.Command{
		command.With{Path: "m"},
		command.MaterialInput{Input: "u_size", Material: material.Color(1, 1, 1, 1)},
	})
	assert.ErrorIs(t, err, program.ErrUnknownInput)
}

func TestTexturedMaterialBindsItsUnit(t *testing.T) {
	rec, r := newTestRenderer(t)
	desc := texture.NewDescriptor(texture.Pixels{Data: common.TextureStagingData{
		Pixels: make([]byte, 4*4*4), Width: 4, Height: 4,
	}})
	img := material.Image(desc)
	cmds := append(meshCommands("m", 1, 0), command.MaterialInput{Input: "u_baseColor", Material: img})
	require.NoError(t, r.Receive(cmds))

	unit, ok := r.Program().TextureUnit(img.ID())
	require.True(t, ok)
	assert.Equal(t, 0, unit)
	assert.True(t, r.Textures().Ready(desc.ID))
	assert.Equal(t, 1, rec.Count("TexImage2D"))
}

func TestTexturesAreUnboundAfterEachMesh(t *testing.T) {
	rec, r := newTestRenderer(t)
	desc := texture.NewDescriptor(texture.Pixels{Data: common.TextureStagingData{
		Pixels: make([]byte, 4*4*4), Width: 4, Height: 4,
	}})
	cmds := append(meshCommands("m", 1, 0), command.MaterialInput{Input: "u_baseColor", Material: material.Image(desc)})
	require.NoError(t, r.Receive(cmds))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	names := rec.Names()
	draw := slices.Index(names, "DrawArrays")
	require.GreaterOrEqual(t, draw, 0)

	binds := rec.Named("BindTexture")
	require.NotEmpty(t, binds)
	assert.Equal(t, gl.Texture(0), binds[len(binds)-1].Args[1], "the unit is cleared after the draw")
	assert.Contains(t, names[draw+1:], "BindTexture")

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	binds = rec.Named("BindTexture")
	require.Len(t, binds, 2, "bound for the draw and cleared again")
	assert.NotEqual(t, gl.Texture(0), binds[0].Args[1])
	assert.Equal(t, gl.Texture(0), binds[1].Args[1])
}

func TestUniformsRejectUnsupportedValues(t *testing.T) {
	_, r := newTestRenderer(t)
	err := r.Receive([]command.Command{command.With{Path: "m"}, command.Uniforms{Name: "u_size", Value: "big"}})
	var typeErr *program.UniformTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "u_size", typeErr.Name)
}

func TestResize(t *testing.T) {
	rec, r := newTestRenderer(t)
	r.Resize(800, 600)
	assert.Equal(t, []any{0, 0, 800, 600}, rec.Named("Viewport")[0].Args)

	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, []float32{800, 600, 800}, lastUpload(t, rec, "u_resolution"))
}

func TestRelinkRebuildsAttributeState(t *testing.T) {
	rec, r := newTestRenderer(t)
	require.NoError(t, r.Receive(meshCommands("m", 1, 0)))
	require.NoError(t, r.Draw(RenderState{}))

	require.NoError(t, r.Receive([]command.Command{
		command.With{Path: "m"},
		command.MaterialInput{Input: "u_baseColor", Material: material.Color(0, 1, 0, 1)},
	}))
	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, 1, rec.Count("VertexAttribPointer"))
}

func TestInvalidProgramOnlyClears(t *testing.T) {
	rec := gltest.NewRecorder()
	rec.FailLink = true
	r := NewRenderer(rec)
	defer r.Close()
	require.NoError(t, r.Receive(meshCommands("m", 1, 0)))

	rec.Reset()
	require.NoError(t, r.Draw(RenderState{}))
	assert.Equal(t, 1, rec.Count("Clear"))
	assert.Zero(t, rec.Count("DrawArrays"))
}

func TestNewRendererPanicsWithoutContext(t *testing.T) {
	assert.PanicsWithValue(t, "renderer: NewRenderer requires a gl.Context", func() { NewRenderer(nil) })
}
