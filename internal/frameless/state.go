package frameless

import "github.com/1broseidon/chromeless/internal/platform"

// StateMachine tracks Normal/Maximized/Minimized and remembers which of
// Normal or Maximized a minimized window returns to.
type StateMachine struct {
	current   platform.WindowState
	restoreTo platform.WindowState
}

// NewStateMachine creates a machine starting in the given state.
func NewStateMachine(initial platform.WindowState) *StateMachine {
	m := &StateMachine{current: initial, restoreTo: platform.StateNormal}
	if initial == platform.StateMaximized {
		m.restoreTo = platform.StateMaximized
	}
	return m
}

// Current returns the last observed state.
func (m *StateMachine) Current() platform.WindowState {
	return m.current
}

// RestoreTarget returns the state a minimized window comes back to.
func (m *StateMachine) RestoreTarget() platform.WindowState {
	return m.restoreTo
}

// Observe records a state reported by the host.
func (m *StateMachine) Observe(s platform.WindowState) {
	if s != platform.StateMinimized {
		m.restoreTo = s
	}
	m.current = s
}

// Minimize returns the state to request for minimizing. The prior
// Normal/Maximized state is kept as the restore target.
func (m *StateMachine) Minimize() platform.WindowState {
	if m.current != platform.StateMinimized {
		m.restoreTo = m.current
	}
	return platform.StateMinimized
}

// ToggleMaximize returns the state to request for a maximize toggle.
func (m *StateMachine) ToggleMaximize() platform.WindowState {
	switch m.current {
	case platform.StateMaximized:
		return platform.StateNormal
	case platform.StateMinimized:
		if m.restoreTo == platform.StateMaximized {
			return platform.StateNormal
		}
		return platform.StateMaximized
	default:
		return platform.StateMaximized
	}
}

// Restore returns the state to request for un-minimizing, or Normal for
// un-maximizing.
func (m *StateMachine) Restore() platform.WindowState {
	if m.current == platform.StateMinimized {
		return m.restoreTo
	}
	return platform.StateNormal
}
