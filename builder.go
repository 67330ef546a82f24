package bough

import "fmt"

// MaxBranchCount is the largest branch count accepted by BuildTree and the
// Scene parameters.
const MaxBranchCount = 6

// BuildParams configures BuildTree.
type BuildParams struct {
	Depth       int
	BranchCount int
	TrunkLength float64
	TrunkRadius float64
}

// Validate checks the parameters before anything indexes the palette.
func (p BuildParams) Validate() error {
	if p.Depth < 1 || p.Depth > PaletteSize {
		return fmt.Errorf("bough: depth %d not in [1, %d]: %w", p.Depth, PaletteSize, ErrDepthRange)
	}
	if p.BranchCount < 0 || p.BranchCount > MaxBranchCount {
		return fmt.Errorf("bough: branch count %d not in [0, %d]: %w", p.BranchCount, MaxBranchCount, ErrBranchCountRange)
	}
	if !(p.TrunkLength > 0) || !(p.TrunkRadius > 0) {
		return fmt.Errorf("bough: trunk %vx%v: %w", p.TrunkLength, p.TrunkRadius, ErrNonPositiveSize)
	}
	return nil
}

// BuildTree generates a complete tree into a new arena and returns it with
// the id of its root branch. It has no side effects on shared state.
func BuildTree(p BuildParams) (*Tree, NodeID, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	t := NewTree()
	root := t.buildBranch(0, p.Depth, p.BranchCount, p.TrunkLength, p.TrunkRadius, Placement{}, false)
	return t, root.ID, nil
}

// ExpectedNodeCount returns 1 + b + b^2 + ... + b^(depth-1).
func ExpectedNodeCount(depth, branchCount int) int {
	total, level := 0, 1
	for i := 0; i < depth; i++ {
		total += level
		level *= branchCount
	}
	return total
}

// buildBranch constructs one branch at depth under parent, placed by pl,
// and recursively fills its branchCount child slots. tilted is false only
// for the top-level root.
func (t *Tree) buildBranch(parent NodeID, depth, branchCount int, length, radius float64, pl Placement, tilted bool) *Node {
	n := t.newBranch(parent, depth, length, radius)
	n.Local = composeLocal(pl, tilted)
	if depth == 1 {
		return n
	}
	for i := 1; i <= branchCount; i++ {
		child := t.buildBranch(n.ID, depth-1, branchCount,
			length*ShrinkFactor, radius*ShrinkFactor,
			Place(branchCount, i, length), true)
		child.Slot = i
	}
	return n
}
