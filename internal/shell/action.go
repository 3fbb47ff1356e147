package shell

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a window command triggered from a titlebar button, a keyboard
// shortcut or a remote client.
type Action uint32

const (
	ActionMinimize Action = iota + 1
	ActionMaximize
	ActionRestore
	ActionToggleMaximize
	ActionClose
)

var actionNames = map[Action]string{
	ActionMinimize:       "minimize",
	ActionMaximize:       "maximize",
	ActionRestore:        "restore",
	ActionToggleMaximize: "toggle-maximize",
	ActionClose:          "close",
}

// String returns the string representation of the action
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint32(a))
}

// ParseAction resolves an action name. Underscores and case are ignored.
func ParseAction(name string) (Action, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for a, n := range actionNames {
		if n == normalized {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q (valid: %s)", name, strings.Join(ActionNames(), ", "))
}

// ActionNames lists every action name in sorted order.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for _, n := range actionNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
