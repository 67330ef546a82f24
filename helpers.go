package bough

import "gonum.org/v1/gonum/spatial/r3"

const (
	gridSize      = 30.0
	gridDivisions = 10
	axesLength    = 3.0
)

var (
	gridColor       = Color{R: 0.35, G: 0.35, B: 0.4, A: 1}
	gridCenterColor = Color{R: 0.55, G: 0.55, B: 0.6, A: 1}
	axesOffset      = r3.Vec{X: -3.5, Z: -3.5}
)

// newHelpers builds the ground grid and the axes marker into their own
// tree. Neither is hit-testable.
func newHelpers() (*Tree, NodeID) {
	t := NewTree()
	root := t.AddGroup(0, "helpers")
	t.AddLines(root, "grid", gridLines(gridSize, gridDivisions))
	axes := t.AddLines(root, "axes", axesLines(axesLength))
	t.Node(axes).Local.Pos = axesOffset
	return t, root
}

// gridLines returns a square grid on the XZ plane centered on the origin.
func gridLines(size float64, divisions int) []Line3 {
	half := size / 2
	step := size / float64(divisions)
	lines := make([]Line3, 0, 2*(divisions+1))
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		c := gridColor
		if 2*i == divisions {
			c = gridCenterColor
		}
		lines = append(lines,
			Line3{A: r3.Vec{X: -half, Z: k}, B: r3.Vec{X: half, Z: k}, Color: c},
			Line3{A: r3.Vec{X: k, Z: -half}, B: r3.Vec{X: k, Z: half}, Color: c},
		)
	}
	return lines
}

// axesLines returns red X, green Y and blue Z axes of the given length.
func axesLines(length float64) []Line3 {
	return []Line3{
		{B: r3.Vec{X: length}, Color: Color{R: 1, A: 1}},
		{B: r3.Vec{Y: length}, Color: Color{G: 1, A: 1}},
		{B: r3.Vec{Z: length}, Color: Color{B: 1, A: 1}},
	}
}
