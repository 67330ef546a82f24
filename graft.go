package bough

import (
	"math/rand/v2"

	"github.com/golang/glog"
)

// GraftOptions controls where Graft attaches the new subtree.
type GraftOptions struct {
	// Slot selects a 1-based slot explicitly. Values above the branch count
	// are clamped. Zero lets Graft choose.
	Slot int
	// Rand drives slot choice when Slot is zero. Nil uses the global source.
	Rand *rand.Rand
}

// Graft builds one new subtree at target.Depth-1 and appends it to target's
// children, placed at a slot on target exactly as a rebuild would place
// that slot. It returns the new branch id.
//
// Targets that are absent, are not branches, or have Depth <= 1 are left
// untouched and Graft returns false. Repeated calls keep adding siblings.
func (t *Tree) Graft(target NodeID, branchCount int, opts GraftOptions) (NodeID, bool) {
	n := t.Node(target)
	if n == nil || n.Kind != KindBranch || n.Depth <= 1 || branchCount <= 0 {
		return 0, false
	}
	slot := opts.Slot
	if slot > 0 {
		slot = clampInt(slot, 1, branchCount)
	} else {
		slot = t.chooseSlot(n, branchCount, opts.Rand)
	}
	child := t.buildBranch(n.ID, n.Depth-1, branchCount,
		n.Length*ShrinkFactor, n.Radius*ShrinkFactor,
		Place(branchCount, slot, n.Length), true)
	child.Slot = slot
	glog.V(1).Infof("bough: grafted branch %d at slot %d/%d on %d (depth %d)",
		child.ID, slot, branchCount, n.ID, n.Depth)
	return child.ID, true
}

// chooseSlot picks uniformly among the slots holding the fewest children,
// so free slots are filled before any slot is doubled up.
func (t *Tree) chooseSlot(n *Node, branchCount int, rng *rand.Rand) int {
	occupied := make([]int, branchCount+1)
	for _, c := range n.children {
		if cn := t.Node(c); cn != nil && cn.Slot >= 1 && cn.Slot <= branchCount {
			occupied[cn.Slot]++
		}
	}
	least := occupied[1]
	for i := 2; i <= branchCount; i++ {
		least = min(least, occupied[i])
	}
	candidates := make([]int, 0, branchCount)
	for i := 1; i <= branchCount; i++ {
		if occupied[i] == least {
			candidates = append(candidates, i)
		}
	}
	var k int
	if rng != nil {
		k = rng.IntN(len(candidates))
	} else {
		k = rand.IntN(len(candidates))
	}
	return candidates[k]
}

// SlotOccupancy returns how many children of id sit at each slot, index 0
// counting children with no slot.
func (t *Tree) SlotOccupancy(id NodeID, branchCount int) []int {
	out := make([]int, branchCount+1)
	for _, c := range t.Children(id) {
		cn := t.Node(c)
		if cn == nil {
			continue
		}
		if cn.Slot >= 1 && cn.Slot <= branchCount {
			out[cn.Slot]++
		} else {
			out[0]++
		}
	}
	return out
}
