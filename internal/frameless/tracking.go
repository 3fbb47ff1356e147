package frameless

import "github.com/1broseidon/chromeless/internal/platform"

// EnableTracking turns on pointer-motion tracking for root and every
// descendant, depth first. It returns the number of controls visited and
// the first error encountered; traversal continues past failures.
func EnableTracking(root platform.Control) (int, error) {
	if root == nil {
		return 0, nil
	}

	var firstErr error
	visited := 0
	seen := make(map[platform.ControlID]struct{})
	stack := []platform.Control{root}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c == nil {
			continue
		}
		if _, ok := seen[c.ID()]; ok {
			continue
		}
		seen[c.ID()] = struct{}{}
		visited++

		if err := c.SetMouseTracking(true); err != nil && firstErr == nil {
			firstErr = err
		}

		children := c.Children()
		// push in reverse so the first child is visited first
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return visited, firstErr
}
