package light

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/command"
)

type fakeNode struct {
	updates  []int
	nextTick []int
}

func (n *fakeNode) Path() string                   { return "lights/0" }
func (n *fakeNode) AddComponent(any) int           { return 3 }
func (n *fakeNode) RequestUpdate(id int)           { n.updates = append(n.updates, id) }
func (n *fakeNode) RequestUpdateOnNextTick(id int) { n.nextTick = append(n.nextTick, id) }

type fakeColor struct {
	rgb    [3]float64
	active bool
}

func (c *fakeColor) NormalizedRGB() [3]float64 { return c.rgb }
func (c *fakeColor) IsActive() bool            { return c.active }

var with = command.With{Path: "lights/0"}

func TestAmbientLightSendsColor(t *testing.T) {
	node := &fakeNode{}
	q := command.NewQueue()
	l := NewLight(node, q, LightTypeAmbient, WithColor(common.RGB{0.2, 0.4, 0.5}), WithIntensity(0.5))

	assert.Equal(t, []int{3}, node.updates)
	assert.False(t, l.Clean())
	assert.Equal(t, []command.Command{with, command.AmbientLight{Color: [3]float32{0.1, 0.2, 0.25}}}, q.Drain())

	l.OnTransformChange([16]float32{12: 1, 13: 2, 14: 3})
	l.Clean()
	assert.Empty(t, q.Drain(), "ambient lights have no position")
}

func TestPointLightSendsColorAndPosition(t *testing.T) {
	q := command.NewQueue()
	l := NewLight(&fakeNode{}, q, LightTypePoint, WithPosition(1, 2, 3))
	l.Clean()
	assert.Equal(t, []command.Command{
		with,
		command.LightColor{Color: [3]float32{1, 1, 1}},
		command.LightPosition{Position: [3]float32{1, 2, 3}},
	}, q.Drain())

	l.OnTransformChange([16]float32{0: 1, 5: 1, 10: 1, 12: 4, 13: 5, 14: 6, 15: 1})
	l.Clean()
	assert.Equal(t, []command.Command{with, command.LightPosition{Position: [3]float32{4, 5, 6}}}, q.Drain())
	assert.Equal(t, [3]float32{4, 5, 6}, l.Position())

	l.OnTransformChange([16]float32{12: 4, 13: 5, 14: 6})
	l.Clean()
	assert.Empty(t, q.Drain(), "unchanged position is not resent")
}

func TestAnimatedColorStaysSubscribed(t *testing.T) {
	node := &fakeNode{}
	q := command.NewQueue()
	c := &fakeColor{rgb: [3]float64{1, 0, 0}, active: true}
	l := NewLight(node, q, LightTypePoint, WithColor(c))
	l.Clean()
	q.Drain()

	assert.True(t, l.Clean())
	assert.Equal(t, []command.Command{with, command.LightColor{Color: [3]float32{1, 0, 0}}}, q.Drain())
	assert.Equal(t, []int{3, 3}, node.nextTick)

	c.active = false
	c.rgb = [3]float64{0, 0, 1}
	assert.False(t, l.Clean())
	assert.Equal(t, []command.Command{with, command.LightColor{Color: [3]float32{0, 0, 1}}}, q.Drain())

	assert.False(t, l.Clean())
	assert.Empty(t, q.Drain())
}

func TestDisabledLightIsBlack(t *testing.T) {
	q := command.NewQueue()
	l := NewLight(&fakeNode{}, q, LightTypeAmbient)
	l.Clean()
	q.Drain()

	l.SetEnabled(false)
	l.Clean()
	assert.Equal(t, []command.Command{with, command.AmbientLight{}}, q.Drain())
	assert.False(t, l.Enabled())

	l.SetEnabled(true)
	l.SetColor(common.RGB{0, 1, 0})
	l.Clean()
	assert.Equal(t, []command.Command{with, command.AmbientLight{Color: [3]float32{0, 1, 0}}}, q.Drain())
}

func TestKillTurnsLightOff(t *testing.T) {
	q := command.NewQueue()
	l := NewLight(&fakeNode{}, q, LightTypePoint)
	l.Kill()
	assert.Equal(t, []command.Command{with, command.LightColor{}}, q.Drain())
}

func TestLightTypeString(t *testing.T) {
	assert.Equal(t, "ambient", LightTypeAmbient.String())
	assert.Equal(t, "point", LightTypePoint.String())
	assert.Equal(t, "unknown", LightType(9).String())
}

func TestNewLightPanicsWithoutCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewLight(nil, command.NewQueue(), LightTypePoint) })
}
