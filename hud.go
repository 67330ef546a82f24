package bough

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudText returns the status overlay: parameters, toggles, key help and
// the current frame rate.
func (s *Scene) hudText() string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	hover := "-"
	if id, ok := s.selection.Target(); ok {
		n := s.tree.Node(id)
		hover = fmt.Sprintf("depth %d slot %d", n.Depth, n.Slot)
	}
	return fmt.Sprintf(
		"depth %d (up/down)  branches %d (left/right)  nodes %d\n"+
			"edit %s (E)  spin %s (space)  reset camera (R)  hud (H)  screenshot (P)\n"+
			"hover %s\n"+
			"FPS: %.0f  TPS: %.0f",
		s.params.Depth, s.params.BranchCount, s.tree.CountBranches(s.root),
		onOff(s.editMode), onOff(s.Spinning()),
		hover,
		ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (s *Scene) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, s.hudText(), 8, 8)
}
