package bough

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGB converts a 0xRRGGBB value into an opaque Color.
func RGB(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// Palette holds one color per depth level, index 0 being depth 1.
var Palette = [...]Color{
	RGB(0x00ff00),
	RGB(0xE44C64),
	RGB(0x3950E6),
	RGB(0x3AE4E6),
	RGB(0xE63A3A),
	RGB(0xE6823A),
}

// PaletteSize is the number of depth levels that have a color.
const PaletteSize = len(Palette)

// HighlightColor replaces a branch's palette color while it is hovered.
var HighlightColor = RGB(0xFFD700)

// PaletteColor returns the palette entry for depth. Depths outside
// [1, PaletteSize] are clamped to the nearest entry.
func PaletteColor(depth int) Color {
	return Palette[clampInt(depth, 1, PaletteSize)-1]
}

// Vec2 is a 2D vector used for screen positions and normalized device
// coordinates.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Kind is the tagged variant of a Node, fixed at construction.
type Kind uint8

const (
	KindGroup   Kind = iota // untagged container with no visual output
	KindBranch              // branch container carrying depth, length and radius
	KindSegment             // tapered cylinder primitive owned by a branch
	KindLines               // line-list primitive, never hit-testable
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindBranch:
		return "branch"
	case KindSegment:
		return "segment"
	case KindLines:
		return "lines"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of tree event sent to an EventSink.
type EventType uint8

const (
	EventHover   EventType = iota // a branch became the hover target
	EventUnhover                  // the hover target was released
	EventGraft                    // a subtree was grafted onto a branch
	EventRebuild                  // the whole tree was replaced
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
