// Package input turns SDL2 events into per-frame player actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is something the player can ask for with a key.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionRotateLeft
	ActionRotateRight
	ActionJump
	ActionRespawn
	ActionToggleHidden
	ActionScreenshot
	ActionQuit
)

// DefaultBindings maps keys to actions. Movement keys are read as held;
// everything else fires once per key press.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_A:      ActionLeft,
	sdl.SCANCODE_LEFT:   ActionLeft,
	sdl.SCANCODE_D:      ActionRight,
	sdl.SCANCODE_RIGHT:  ActionRight,
	sdl.SCANCODE_Q:      ActionRotateLeft,
	sdl.SCANCODE_E:      ActionRotateRight,
	sdl.SCANCODE_SPACE:  ActionJump,
	sdl.SCANCODE_W:      ActionJump,
	sdl.SCANCODE_UP:     ActionJump,
	sdl.SCANCODE_R:      ActionRespawn,
	sdl.SCANCODE_F1:     ActionToggleHidden,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_ESCAPE: ActionQuit,
}

// Frame is the input state collected for one frame.
type Frame struct {
	Horizontal   float32 // -1, 0 or 1
	RotateLeft   bool
	RotateRight  bool
	Jump         bool
	Respawn      bool
	ToggleHidden bool
	Screenshot   bool
	Quit         bool
	Resized      bool
	Width        int
	Height       int
}

// Input tracks held keys across frames and key presses within a frame.
type Input struct {
	bindings map[sdl.Scancode]Action
	held     map[Action]int
	frame    Frame
}

// New creates an input handler with the given bindings, or DefaultBindings when nil.
func New(bindings map[sdl.Scancode]Action) *Input {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Input{
		bindings: bindings,
		held:     make(map[Action]int),
	}
}

// Poll drains the SDL event queue and returns the frame's actions.
func (i *Input) Poll() Frame {
	i.begin()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.end()
}

func (i *Input) begin() {
	i.frame = Frame{}
}

func (i *Input) end() Frame {
	left, right := i.held[ActionLeft] > 0, i.held[ActionRight] > 0
	switch {
	case left && !right:
		i.frame.Horizontal = -1
	case right && !left:
		i.frame.Horizontal = 1
	}
	return i.frame
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.frame.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.frame.Resized = true
			i.frame.Width = int(e.Data1)
			i.frame.Height = int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		action, ok := i.bindings[e.Keysym.Scancode]
		if !ok {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat != 0 {
				return
			}
			i.held[action]++
			i.press(action)
		case sdl.KEYUP:
			if i.held[action] > 0 {
				i.held[action]--
			}
		}
	}
}

func (i *Input) press(a Action) {
	switch a {
	case ActionRotateLeft:
		i.frame.RotateLeft = true
	case ActionRotateRight:
		i.frame.RotateRight = true
	case ActionJump:
		i.frame.Jump = true
	case ActionRespawn:
		i.frame.Respawn = true
	case ActionToggleHidden:
		i.frame.ToggleHidden = true
	case ActionScreenshot:
		i.frame.Screenshot = true
	case ActionQuit:
		i.frame.Quit = true
	}
}
