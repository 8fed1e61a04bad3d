// Package config provides configuration loading and access for the site and its visuals.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Ripple    RippleConfig    `yaml:"ripple"`
	Scene     SceneConfig     `yaml:"scene"`
	Contact   ContactConfig   `yaml:"contact"`
	Stream    StreamConfig    `yaml:"stream"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// RippleConfig holds wave grid parameters.
type RippleConfig struct {
	Scale           int           `yaml:"scale"`             // Viewport pixels per grid cell
	Damping         float64       `yaml:"damping"`           // Per-step energy retention (< 1)
	DropRadius      float64       `yaml:"drop_radius"`       // Impulse radius in cells
	Normalization   float64       `yaml:"normalization"`     // Displacement that maps to full palette intensity
	MoveBase        float64       `yaml:"move_base"`         // Pointer-move strength at zero speed
	MoveGain        float64       `yaml:"move_gain"`         // Strength added per pixel of pointer travel
	MaxMoveStrength float64       `yaml:"max_move_strength"` // Pointer-move strength cap
	ClickStrength   float64       `yaml:"click_strength"`
	Palette         PaletteConfig `yaml:"palette"`
}

// PaletteConfig holds the colorize pass settings.
type PaletteConfig struct {
	Gold         string     `yaml:"gold"`         // Base hue as hex
	Coefficients [3]float64 `yaml:"coefficients"` // Per-channel multipliers applied to the base hue
}

// SceneConfig holds the 3D decorative scene parameters.
type SceneConfig struct {
	Gold      string         `yaml:"gold"`
	Input     InputConfig    `yaml:"input"`
	Wall      WallConfig     `yaml:"wall"`
	Floor     FloorConfig    `yaml:"floor"`
	Scales    ScalesConfig   `yaml:"scales"`
	Particles ParticleConfig `yaml:"particles"`
	Camera    CameraConfig   `yaml:"camera"`
}

// InputConfig holds pointer and orientation tracking parameters.
type InputConfig struct {
	Smoothing        float64 `yaml:"smoothing"`         // Exponential smoothing factor per frame
	OrientationRange float64 `yaml:"orientation_range"` // Degrees of tilt that map to ±1
	BetaRest         float64 `yaml:"beta_rest"`         // Resting front-back tilt in degrees
	TouchBreakpoint  int     `yaml:"touch_breakpoint"`  // Viewports narrower than this count as touch devices
	AutoAmplitude    float64 `yaml:"auto_amplitude"`    // Synthetic signal amplitude on touch devices
}

// WallConfig holds instanced cube wall parameters.
type WallConfig struct {
	Cols        int     `yaml:"cols"`
	Rows        int     `yaml:"rows"`
	Spacing     float64 `yaml:"spacing"`
	Size        float64 `yaml:"size"`
	Depth       float64 `yaml:"depth"`        // Z position of the wall plane
	Jitter      float64 `yaml:"jitter"`       // Max position jitter per axis
	ScaleJitter float64 `yaml:"scale_jitter"` // Fractional size jitter
	SpeedMin    float64 `yaml:"speed_min"`
	SpeedMax    float64 `yaml:"speed_max"`
	Amplitude   float64 `yaml:"amplitude"` // Breathing height
	Tilt        float64 `yaml:"tilt"`      // Rotation per unit of pointer offset
	Shimmer     float64 `yaml:"shimmer"`   // Idle roll amplitude
	Parallax    float64 `yaml:"parallax"`  // Position shift per unit of pointer offset
	Lerp        float64 `yaml:"lerp"`
	ColorJitter float64 `yaml:"color_jitter"` // Lightness jitter in HCL space
}

// FloorConfig holds the reflective floor parameters.
type FloorConfig struct {
	Y            float64 `yaml:"y"`
	Size         float64 `yaml:"size"`
	Reflectivity float64 `yaml:"reflectivity"` // Alpha of the mirrored pass
	Color        string  `yaml:"color"`
}

// ScalesConfig holds the balance-scale rig parameters.
type ScalesConfig struct {
	MaxTilt   float64      `yaml:"max_tilt"`   // Beam rotation at full pointer deflection (radians)
	AutoTilt  float64      `yaml:"auto_tilt"`  // Beam swing amplitude on touch devices
	AutoSpeed float64      `yaml:"auto_speed"` // Swing angular speed on touch devices
	Lerp      float64      `yaml:"lerp"`
	Position  [3]float64   `yaml:"position"`
	Scale     float64      `yaml:"scale"`
	Parts     []PartConfig `yaml:"parts"`
}

// PartConfig names one loadable sub-mesh of the scales rig.
type PartConfig struct {
	Name  string     `yaml:"name"`
	Model string     `yaml:"model"`
	Pivot [3]float64 `yaml:"pivot"`
}

// ParticleConfig holds the pointer-reactive spark emitter parameters.
type ParticleConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Count        int     `yaml:"count"`          // Fixed pool size
	EmitPerFrame int     `yaml:"emit_per_frame"` // Sparks recycled per frame
	Life         int     `yaml:"life"`           // Frames
	Speed        float64 `yaml:"speed"`
	Turbulence   float64 `yaml:"turbulence"`
	NoiseScale   float64 `yaml:"noise_scale"`
	Size         float64 `yaml:"size"`
	Spread       float64 `yaml:"spread"` // Emission radius around the pointer
}

// CameraConfig holds the scene camera parameters.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	FovY     float64    `yaml:"fovy"`
	Parallax float64    `yaml:"parallax"`
}

// ContactConfig holds contact relay parameters.
type ContactConfig struct {
	Endpoint      string  `yaml:"endpoint"`
	From          string  `yaml:"from"`
	To            string  `yaml:"to"`
	APIKeyEnv     string  `yaml:"api_key_env"` // Environment variable holding the mail API key
	SubjectPrefix string  `yaml:"subject_prefix"`
	Footer        string  `yaml:"footer"`
	TimeoutSec    float64 `yaml:"timeout_sec"`
	MaxBodyBytes  int64   `yaml:"max_body_bytes"`
	ResetAfterSec float64 `yaml:"reset_after_sec"` // Form success display time
}

// StreamConfig holds live ripple stream parameters.
type StreamConfig struct {
	TPS             int     `yaml:"tps"`
	MaxClients      int     `yaml:"max_clients"`
	WriteTimeoutSec float64 `yaml:"write_timeout_sec"`
	ViewWidth       int     `yaml:"view_width"`
	ViewHeight      int     `yaml:"view_height"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Addr               string  `yaml:"addr"`
	StaticDir          string  `yaml:"static_dir"`
	ShutdownTimeoutSec float64 `yaml:"shutdown_timeout_sec"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per ripple stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT           float64    // Seconds per frame at TargetFPS
	RippleGold   [3]float64 // Ripple base hue as 0-255 channels
	SceneGold    color.RGBA
	FloorColor   color.RGBA
	ScreenW32    float32
	ScreenH32    float32
	WallElements int // Cols * Rows
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, fmt.Errorf("computing derived config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.WallElements = c.Scene.Wall.Cols * c.Scene.Wall.Rows

	// Stream frames carry their size as u16
	if c.Stream.ViewWidth < 0 || c.Stream.ViewWidth > math.MaxUint16 {
		return fmt.Errorf("stream.view_width %d out of range [0, %d]", c.Stream.ViewWidth, math.MaxUint16)
	}
	if c.Stream.ViewHeight < 0 || c.Stream.ViewHeight > math.MaxUint16 {
		return fmt.Errorf("stream.view_height %d out of range [0, %d]", c.Stream.ViewHeight, math.MaxUint16)
	}

	gold, err := colorful.Hex(c.Ripple.Palette.Gold)
	if err != nil {
		return fmt.Errorf("ripple.palette.gold: %w", err)
	}
	r, g, b := gold.RGB255()
	c.Derived.RippleGold = [3]float64{float64(r), float64(g), float64(b)}

	if c.Derived.SceneGold, err = parseRGBA(c.Scene.Gold); err != nil {
		return fmt.Errorf("scene.gold: %w", err)
	}
	if c.Derived.FloorColor, err = parseRGBA(c.Scene.Floor.Color); err != nil {
		return fmt.Errorf("scene.floor.color: %w", err)
	}
	return nil
}

func parseRGBA(hex string) (color.RGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
