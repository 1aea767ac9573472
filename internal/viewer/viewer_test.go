package viewer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-system/config"
	"solar-system/math"
	"solar-system/renderer"
	"solar-system/scene"
)

const (
	keyEsc = iota + 1
	keyR
	keyC
	keyTab
	keyShift
	keySpace
	keyPlus
	keyKPPlus
	keyMinus
	key1
	key2
	key3
)

var testBindings = Bindings{
	Quit:         keyEsc,
	Reload:       keyR,
	ToggleCamera: keyC,
	Cycle:        keyTab,
	Shift:        []int{keyShift},
	Pause:        keySpace,
	Faster:       []int{keyPlus, keyKPPlus},
	Slower:       []int{keyMinus},
	Select:       []int{key1, key2, key3},
}

type keyboard map[int]bool

func (k keyboard) isDown(key int) bool { return k[key] }

func actions(cmds []Command) []Action {
	out := make([]Action, len(cmds))
	for i, c := range cmds {
		out[i] = c.Action
	}
	return out
}

func TestInputEdgeTriggered(t *testing.T) {
	kb := keyboard{}
	in := NewInput(testBindings, kb.isDown)

	assert.Empty(t, in.Poll())

	kb[keySpace] = true
	assert.Equal(t, []Action{ActionTogglePause}, actions(in.Poll()))
	// held
	assert.Empty(t, in.Poll())
	assert.Empty(t, in.Poll())

	kb[keySpace] = false
	assert.Empty(t, in.Poll())
	kb[keySpace] = true
	assert.Equal(t, []Action{ActionTogglePause}, actions(in.Poll()))
}

func TestInputCycleWithShift(t *testing.T) {
	kb := keyboard{}
	in := NewInput(testBindings, kb.isDown)

	kb[keyTab] = true
	assert.Equal(t, []Action{ActionNextBody}, actions(in.Poll()))

	kb[keyTab] = false
	in.Poll()
	kb[keyShift] = true
	kb[keyTab] = true
	assert.Equal(t, []Action{ActionPrevBody}, actions(in.Poll()))
}

func TestInputSelectAndOrder(t *testing.T) {
	kb := keyboard{keyEsc: true, key3: true, keyC: true}
	in := NewInput(testBindings, kb.isDown)

	cmds := in.Poll()
	require.Len(t, cmds, 3)
	assert.Equal(t, ActionQuit, cmds[0].Action)
	assert.Equal(t, ActionToggleCamera, cmds[1].Action)
	assert.Equal(t, Command{Action: ActionSelectBody, Body: 3}, cmds[2])
}

func TestInputAlternateKeys(t *testing.T) {
	kb := keyboard{keyPlus: true}
	in := NewInput(testBindings, kb.isDown)
	assert.Equal(t, []Action{ActionFaster}, actions(in.Poll()))

	// both keys down at once still give one command, and the keypad key
	// does not fire later while it stays held
	kb[keyKPPlus] = true
	kb[keyPlus] = false
	assert.Equal(t, []Action{ActionFaster}, actions(in.Poll()))
	kb[keyPlus] = true
	assert.Equal(t, []Action{ActionFaster}, actions(in.Poll()))
	assert.Empty(t, in.Poll())
}

func TestClockStep(t *testing.T) {
	c := NewClock(config.SimulationSettings{TimeScale: 2, MaxStep: 0.1})

	assert.InDelta(t, 0.1, c.Step(0.05), 1e-6)
	assert.InDelta(t, 0.2, c.Step(5), 1e-6, "clamped to MaxStep")
	assert.Zero(t, c.Step(-1))

	c.TogglePause()
	assert.Zero(t, c.Step(0.05))
	c.TogglePause()
	assert.NotZero(t, c.Step(0.05))
}

func TestClockTimeScaleClamped(t *testing.T) {
	c := NewClock(config.Default().Simulation)
	c.Faster()
	assert.InDelta(t, TimeScaleStep, c.TimeScale, 1e-6)

	for i := 0; i < 50; i++ {
		c.Faster()
	}
	assert.InDelta(t, config.MaxTimeScale, c.TimeScale, 1e-4)

	for i := 0; i < 50; i++ {
		c.Slower()
	}
	assert.InDelta(t, config.MinTimeScale, c.TimeScale, 1e-6)
}

type ring int

func (r ring) Len() int { return int(r) }
func (r ring) PositionOf(i int) math.Vec3 { return math.Vec3{X: float32(i) * 2} }
func (r ring) RadiusOf(int) float32 { return 0.5 }

func TestController(t *testing.T) {
	var logs bytes.Buffer
	rig := scene.NewCameraRig(scene.NewCamera(60, 1, 0.1, 100))
	rig.Update(ring(4))
	clock := NewClock(config.Default().Simulation)
	names := []string{"Sun", "A", "B", "C"}
	ctl := NewController(rig, clock, func(i int) string { return names[i] }, slog.New(slog.NewTextHandler(&logs, nil)))

	quit, reload := 0, 0
	ctl.Quit = func() { quit++ }
	ctl.Reload = func() { reload++ }

	ctl.Apply([]Command{{Action: ActionSelectBody, Body: 2}})
	assert.Equal(t, scene.CameraChase, rig.Mode)
	assert.Equal(t, 2, rig.Target)
	assert.Contains(t, logs.String(), "target=B")

	ctl.Apply([]Command{{Action: ActionNextBody}, {Action: ActionNextBody}})
	assert.Equal(t, 1, rig.Target)
	ctl.Apply([]Command{{Action: ActionPrevBody}})
	assert.Equal(t, 3, rig.Target)

	ctl.Apply([]Command{{Action: ActionSelectBody, Body: 7}})
	assert.Equal(t, 3, rig.Target)
	assert.Contains(t, logs.String(), "no body to chase")

	ctl.Apply([]Command{{Action: ActionToggleCamera}})
	assert.Equal(t, scene.CameraOverview, rig.Mode)

	ctl.Apply([]Command{{Action: ActionTogglePause}, {Action: ActionFaster}, {Action: ActionQuit}, {Action: ActionReload}})
	assert.True(t, clock.Paused)
	assert.InDelta(t, TimeScaleStep, clock.TimeScale, 1e-6)
	assert.Equal(t, 1, quit)
	assert.Equal(t, 1, reload)
}

func TestHUD(t *testing.T) {
	h := NewHUD("Solar System")
	assert.Equal(t, "Solar System", h.Title())

	for i := 0; i < 59; i++ {
		assert.False(t, h.Tick(1.0/60))
	}
	assert.True(t, h.Tick(1.0/60+1e-9))
	assert.Equal(t, 60, h.FPS())

	clock := &Clock{TimeScale: 1}
	h.Update("chase Earth", clock, renderer.Stats{DrawCalls: 11, Triangles: 100, Culled: 2})
	assert.Equal(t, "Solar System | 60 FPS | chase Earth | x1.00 | draws 11 tris 100 culled 2", h.Title())

	clock.Paused = true
	h.Update("overview", clock, renderer.Stats{})
	assert.Contains(t, h.Title(), "| paused |")
}
