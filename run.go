package bough

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; the camera viewport
	// follows the outside size.
	Resizable bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.camera.Viewport = Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives scene until the window is closed. It
// blocks and releases the scene's tree on return.
func Run(scene *Scene, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	defer scene.Close()
	return ebiten.RunGame(&game{scene: scene})
}

// RunConfig returns the window settings from a scene config.
func (c Config) RunConfig() RunConfig {
	return RunConfig{Title: c.Title, Width: c.Width, Height: c.Height, Resizable: true}
}
