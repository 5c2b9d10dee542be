package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
)

func TestExpressionIDsAreUnique(t *testing.T) {
	a := NewExpression("return vec4(1.0);")
	b := NewExpression("return vec4(1.0);")
	assert.Positive(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestColorUsesFloatLiterals(t *testing.T) {
	e := Color(1, 0, 0.5, 1)
	assert.Equal(t, "return vec4(1.0, 0.0, 0.5, 1.0);", e.GLSL())
	assert.Nil(t, e.Texture())
	assert.Empty(t, e.Uniforms())
}

func TestImageCarriesTexture(t *testing.T) {
	desc := texture.NewDescriptor(texture.Pixels{Data: common.TextureStagingData{}})
	e := Image(desc)
	require.NotNil(t, e.Texture())
	assert.Equal(t, desc.ID, e.Texture().ID)
	assert.Contains(t, e.GLSL(), ImageSampler)
}

func TestValueDeclaresUniform(t *testing.T) {
	e := Value("u_tint", 1, 0, 0, 1)
	assert.Equal(t, "return u_tint;", e.GLSL())
	assert.Equal(t, []Uniform{{Name: "u_tint", Value: []float32{1, 0, 0, 1}}}, e.Uniforms())
	assert.Panics(t, func() { Value("u_bad", 1, 2) })
}

func TestWithUniformReplacesDuplicate(t *testing.T) {
	e := NewExpression("return u_a;", WithUniform("u_a", 1), WithUniform("u_a", 2))
	assert.Equal(t, []Uniform{{Name: "u_a", Value: []float32{2}}}, e.Uniforms())
}

func TestEmptyBodyPanics(t *testing.T) {
	assert.Panics(t, func() { NewExpression("  ") })
}
