package core

// Action is a semantic game action, abstracted from physical key presses.
// The platform maps keys (normal and vim-style bindings) to actions; the
// game and the autoplay bot both speak only in actions.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveLeft         // Left, h - shift piece one block-cell left
	ActionMoveRight        // Right, l - shift piece one block-cell right
	ActionRotateCW         // Up, k, i - rotate clockwise
	ActionRotateCCW        // u - rotate counter-clockwise
	ActionSoftDrop         // Down, j - drop one grain row, +1 score
	ActionHardDrop         // Enter, Space - drop to floor and lock
	ActionPause            // P - pause/unpause
	ActionRestart          // R - restart after game over
	ActionConfirm          // Enter - confirm selection in menus
	ActionBack             // B, Esc - back to menu
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds all actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
