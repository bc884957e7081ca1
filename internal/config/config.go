// Package config loads the tunable pipeline and game parameters from an
// optional drawvsai.yaml file. Every knob has a working default, so a
// missing config file is not an error.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Params holds every tunable parameter of the pipeline and game engine.
type Params struct {
	// Capture
	CameraID  int `mapstructure:"camera_id"`
	IdleFPS   int `mapstructure:"idle_fps"`
	ActiveFPS int `mapstructure:"active_fps"`

	// Hand tracking
	SmoothingAlpha  float64 `mapstructure:"smoothing_alpha"`
	MissBudget      int     `mapstructure:"miss_budget"`
	MinBoxFrac      float64 `mapstructure:"min_box_frac"`
	MaxBoxFrac      float64 `mapstructure:"max_box_frac"`
	MaxOverhangFrac float64 `mapstructure:"max_overhang_frac"`

	// Gesture recognition
	StayFrames      int     `mapstructure:"stay_frames"`
	StrictHold      bool    `mapstructure:"strict_hold"`
	CommitFrames    int     `mapstructure:"commit_frames"`
	PinchDistancePx float64 `mapstructure:"pinch_distance_px"`

	// Sketch preprocessing
	TargetSize   int     `mapstructure:"target_size"`
	PadFactor    float64 `mapstructure:"pad_factor"`
	NoiseFloor   float32 `mapstructure:"noise_floor"`
	ContrastGain float32 `mapstructure:"contrast_gain"`

	// Game
	EMAFactor     float64       `mapstructure:"ema_factor"`
	StreakToScore int           `mapstructure:"streak_to_score"`
	MinInkRatio   float64       `mapstructure:"min_ink_ratio"`
	RestartDelay  time.Duration `mapstructure:"restart_delay"`
	QuietPeriod   time.Duration `mapstructure:"quiet_period"`
	DrawInterval  time.Duration `mapstructure:"draw_interval"`

	// Server
	HTTPPort  int    `mapstructure:"http_port"`
	StaticDir string `mapstructure:"static_dir"`
}

// Defaults returns the built-in parameter set.
func Defaults() Params {
	return Params{
		CameraID:  0,
		IdleFPS:   5,
		ActiveFPS: 15,

		SmoothingAlpha:  0.5,
		MissBudget:      5,
		MinBoxFrac:      0.02,
		MaxBoxFrac:      0.90,
		MaxOverhangFrac: 0.30,

		StayFrames:      3,
		StrictHold:      false,
		CommitFrames:    5,
		PinchDistancePx: 50,

		TargetSize:   28,
		PadFactor:    1.18,
		NoiseFloor:   0.08,
		ContrastGain: 1.6,

		EMAFactor:     0.8,
		StreakToScore: 1,
		MinInkRatio:   0.01,
		RestartDelay:  800 * time.Millisecond,
		QuietPeriod:   250 * time.Millisecond,
		DrawInterval:  350 * time.Millisecond,

		HTTPPort:  8080,
		StaticDir: "web",
	}
}

// Load reads drawvsai.yaml from the given search paths and merges it
// over the defaults. A missing file yields the defaults.
func Load(searchPaths ...string) (Params, error) {
	v := viper.New()
	v.SetConfigName("drawvsai")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if len(searchPaths) == 0 {
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Params{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := p.validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("camera_id", d.CameraID)
	v.SetDefault("idle_fps", d.IdleFPS)
	v.SetDefault("active_fps", d.ActiveFPS)

	v.SetDefault("smoothing_alpha", d.SmoothingAlpha)
	v.SetDefault("miss_budget", d.MissBudget)
	v.SetDefault("min_box_frac", d.MinBoxFrac)
	v.SetDefault("max_box_frac", d.MaxBoxFrac)
	v.SetDefault("max_overhang_frac", d.MaxOverhangFrac)

	v.SetDefault("stay_frames", d.StayFrames)
	v.SetDefault("strict_hold", d.StrictHold)
	v.SetDefault("commit_frames", d.CommitFrames)
	v.SetDefault("pinch_distance_px", d.PinchDistancePx)

	v.SetDefault("target_size", d.TargetSize)
	v.SetDefault("pad_factor", d.PadFactor)
	v.SetDefault("noise_floor", d.NoiseFloor)
	v.SetDefault("contrast_gain", d.ContrastGain)

	v.SetDefault("ema_factor", d.EMAFactor)
	v.SetDefault("streak_to_score", d.StreakToScore)
	v.SetDefault("min_ink_ratio", d.MinInkRatio)
	v.SetDefault("restart_delay", d.RestartDelay)
	v.SetDefault("quiet_period", d.QuietPeriod)
	v.SetDefault("draw_interval", d.DrawInterval)

	v.SetDefault("http_port", d.HTTPPort)
	v.SetDefault("static_dir", d.StaticDir)
}

func (p Params) validate() error {
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing_alpha must be in (0, 1], got %v", p.SmoothingAlpha)
	}
	if p.MinBoxFrac < 0 || p.MaxBoxFrac <= p.MinBoxFrac {
		return fmt.Errorf("box fraction bounds invalid: min %v, max %v", p.MinBoxFrac, p.MaxBoxFrac)
	}
	if p.TargetSize <= 0 {
		return fmt.Errorf("target_size must be positive, got %d", p.TargetSize)
	}
	if p.PadFactor < 1 {
		return fmt.Errorf("pad_factor must be at least 1, got %v", p.PadFactor)
	}
	if p.IdleFPS <= 0 || p.ActiveFPS < p.IdleFPS {
		return fmt.Errorf("fps bounds invalid: idle %d, active %d", p.IdleFPS, p.ActiveFPS)
	}
	if p.HTTPPort <= 0 || p.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", p.HTTPPort)
	}
	return nil
}
