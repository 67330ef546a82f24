package bough

// SelectionState is the hover state of a Selection.
type SelectionState uint8

const (
	SelectionIdle     SelectionState = iota // no hover target
	SelectionHovering                       // a branch is highlighted
)

// Selection tracks which branch the pointer hovers and keeps exactly that
// branch drawn in HighlightColor.
type Selection struct {
	state  SelectionState
	target NodeID
}

// State returns the current state.
func (s *Selection) State() SelectionState {
	return s.state
}

// Target returns the hovered branch, if any.
func (s *Selection) Target() (NodeID, bool) {
	return s.target, s.state == SelectionHovering
}

// Update applies one pick result. ok is false when the pick found nothing.
// It reports whether the hover target changed.
func (s *Selection) Update(t *Tree, hit NodeID, ok bool) bool {
	if !ok {
		if s.state == SelectionIdle {
			return false
		}
		s.unhighlight(t)
		return true
	}
	if s.state == SelectionHovering && s.target == hit {
		return false
	}
	s.unhighlight(t)
	t.setBranchColor(hit, HighlightColor)
	s.state = SelectionHovering
	s.target = hit
	return true
}

// Clear restores the hovered branch's palette color and goes idle.
func (s *Selection) Clear(t *Tree) {
	s.unhighlight(t)
}

// Reset forgets the target without recoloring it. Used once the tree that
// held the target has been discarded.
func (s *Selection) Reset() {
	s.state = SelectionIdle
	s.target = 0
}

func (s *Selection) unhighlight(t *Tree) {
	if s.state == SelectionHovering {
		if n := t.Node(s.target); n != nil {
			t.setBranchColor(s.target, PaletteColor(n.Depth))
		}
	}
	s.Reset()
}
