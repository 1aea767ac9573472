// Package viewer holds the window-independent parts of the interactive
// viewer: key bindings, the simulation clock and the title-bar HUD.
package viewer

// Action is what a key press asks the viewer to do.
type Action int

const (
	ActionQuit Action = iota
	ActionReload
	ActionToggleCamera
	ActionNextBody
	ActionPrevBody
	ActionSelectBody
	ActionTogglePause
	ActionFaster
	ActionSlower
)

// Command is one edge-triggered action. Body is set for ActionSelectBody.
type Command struct {
	Action Action
	Body   int
}

// Bindings maps actions to key codes. Select holds the keys that chase
// bodies 1, 2, ... in order.
type Bindings struct {
	Quit         int
	Reload       int
	ToggleCamera int
	Cycle        int   // next body, previous with shift
	Shift        []int // any of these reverses Cycle
	Pause        int
	Faster       []int
	Slower       []int
	Select       []int
}

// Input turns raw key state into commands on the frame a key goes down.
type Input struct {
	bindings Bindings
	isDown   func(key int) bool
	wasDown  map[int]bool
}

// NewInput polls keys through isDown, usually core.Window.IsKeyPressed.
func NewInput(b Bindings, isDown func(key int) bool) *Input {
	return &Input{bindings: b, isDown: isDown, wasDown: make(map[int]bool)}
}

// pressed reports a key that is down now and was up on the previous poll.
func (in *Input) pressed(key int) bool {
	down := in.isDown(key)
	was := in.wasDown[key]
	in.wasDown[key] = down
	return down && !was
}

// anyPressed checks every key so each one's state stays current.
func (in *Input) anyPressed(keys []int) bool {
	hit := false
	for _, k := range keys {
		if in.pressed(k) {
			hit = true
		}
	}
	return hit
}

// Poll returns the commands triggered since the previous call, in a fixed
// order. Call it once per frame after polling window events.
func (in *Input) Poll() []Command {
	b := in.bindings
	var cmds []Command
	add := func(a Action) { cmds = append(cmds, Command{Action: a}) }

	if in.pressed(b.Quit) {
		add(ActionQuit)
	}
	if in.pressed(b.Reload) {
		add(ActionReload)
	}
	if in.pressed(b.ToggleCamera) {
		add(ActionToggleCamera)
	}
	if in.pressed(b.Cycle) {
		shift := false
		for _, k := range b.Shift {
			shift = shift || in.isDown(k)
		}
		if shift {
			add(ActionPrevBody)
		} else {
			add(ActionNextBody)
		}
	}
	for i, k := range b.Select {
		if in.pressed(k) {
			cmds = append(cmds, Command{Action: ActionSelectBody, Body: i + 1})
		}
	}
	if in.pressed(b.Pause) {
		add(ActionTogglePause)
	}
	if in.anyPressed(b.Faster) {
		add(ActionFaster)
	}
	if in.anyPressed(b.Slower) {
		add(ActionSlower)
	}
	return cmds
}
