package bough

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// CameraConfig holds the initial camera settings.
type CameraConfig struct {
	FOVDegrees  float64    `toml:"fov_degrees"`
	Near        float64    `toml:"near"`
	Far         float64    `toml:"far"`
	Eye         [3]float64 `toml:"eye"`
	Target      [3]float64 `toml:"target"`
	MinDistance float64    `toml:"min_distance"`
	MaxDistance float64    `toml:"max_distance"`
}

// Config is the full configuration of a Scene and its window.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	Depth       int     `toml:"depth"`
	BranchCount int     `toml:"branch_count"`
	TrunkLength float64 `toml:"trunk_length"`
	TrunkRadius float64 `toml:"trunk_radius"`

	// EditMode starts the scene with picking and grafting enabled.
	EditMode bool `toml:"edit_mode"`
	// Spin starts the scene spinning.
	Spin            bool    `toml:"spin"`
	SpinStepDegrees float64 `toml:"spin_step_degrees"`

	// GrowSeconds is the duration of the grow-in tween on grafted branches.
	// Zero disables the tween.
	GrowSeconds float64 `toml:"grow_seconds"`

	ShowHelpers bool `toml:"show_helpers"`
	ShowHUD     bool `toml:"show_hud"`

	// Seed seeds graft slot choice. Zero picks a random seed.
	Seed uint64 `toml:"seed"`

	Debug         bool   `toml:"debug"`
	ScreenshotDir string `toml:"screenshot_dir"`

	Camera CameraConfig `toml:"camera"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Title:           "bough",
		Width:           960,
		Height:          720,
		Depth:           5,
		BranchCount:     6,
		TrunkLength:     20,
		TrunkRadius:     0.5,
		SpinStepDegrees: 1,
		GrowSeconds:     0.35,
		ShowHelpers:     true,
		ShowHUD:         true,
		ScreenshotDir:   "screenshots",
		Camera: CameraConfig{
			FOVDegrees:  35,
			Near:        defaultNear,
			Far:         defaultFar,
			Eye:         [3]float64{defaultEye.X, defaultEye.Y, defaultEye.Z},
			MinDistance: defaultMinDistance,
			MaxDistance: defaultMaxDistance,
		},
	}
}

// Validate checks every field that would otherwise fail later.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if err := (Params{Depth: c.Depth, BranchCount: c.BranchCount}).Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(c.TrunkLength > 0) || !(c.TrunkRadius > 0) {
		errs = append(errs, fmt.Errorf("trunk %vx%v: %w", c.TrunkLength, c.TrunkRadius, ErrNonPositiveSize))
	}
	if c.GrowSeconds < 0 {
		errs = append(errs, fmt.Errorf("grow_seconds %v must not be negative", c.GrowSeconds))
	}
	cam := c.Camera
	if cam.FOVDegrees <= 0 || cam.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v not in (0, 180)", cam.FOVDegrees))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] is empty", cam.Near, cam.Far))
	}
	if cam.MinDistance <= 0 || cam.MaxDistance < cam.MinDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%v, %v] is empty", cam.MinDistance, cam.MaxDistance))
	}
	return errors.Join(errs...)
}

// newCamera creates the camera described by the config.
func (c Config) newCamera() *Camera {
	cam := NewCamera(Rect{Width: float64(c.Width), Height: float64(c.Height)})
	cc := c.Camera
	cam.FOV = cc.FOVDegrees * math.Pi / 180
	cam.Near = cc.Near
	cam.Far = cc.Far
	cam.MinDistance = cc.MinDistance
	cam.MaxDistance = cc.MaxDistance
	cam.Target = r3.Vec{X: cc.Target[0], Y: cc.Target[1], Z: cc.Target[2]}
	cam.SetEye(r3.Vec{X: cc.Eye[0], Y: cc.Eye[1], Z: cc.Eye[2]})
	return cam
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode renders the config as TOML, for writing a starter file.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
