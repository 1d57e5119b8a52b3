package wizard

// NavigationStack holds the prompted steps completed so far, in order. It
// exists only to serve "back".
type NavigationStack struct {
	steps []*Step
}

// Push records s as completed.
func (n *NavigationStack) Push(s *Step) {
	n.steps = append(n.steps, s)
}

// Pop removes and returns the most recently completed step.
func (n *NavigationStack) Pop() (*Step, bool) {
	if len(n.steps) == 0 {
		return nil, false
	}
	s := n.steps[len(n.steps)-1]
	n.steps = n.steps[:len(n.steps)-1]
	return s, true
}

// Len returns the number of completed steps.
func (n *NavigationStack) Len() int {
	return len(n.steps)
}

// Names lists the completed step names, oldest first.
func (n *NavigationStack) Names() []string {
	names := make([]string, len(n.steps))
	for i, s := range n.steps {
		names[i] = s.Name
	}
	return names
}
