// ABOUTME: Game configuration
// ABOUTME: Defines settings, defaults and validation for a session
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/capture"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/decode"
	"github.com/Resonate-Protocol/voiceflap/pkg/source"
)

// Config holds runtime configuration for a game session.
type Config struct {
	Game  GameConfig  `koanf:"game"`
	Audio AudioConfig `koanf:"audio"`
	Frame FrameConfig `koanf:"frame"`
	SFX   SFXConfig   `koanf:"sfx"`

	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9464".
	MetricsAddr string `koanf:"metrics_addr"`
	LogFile     string `koanf:"log_file"`
	Debug       bool   `koanf:"debug"`
}

// GameConfig holds the playfield constants.
type GameConfig struct {
	Width     float64 `koanf:"width"`
	Height    float64 `koanf:"height"`
	GapHeight float64 `koanf:"gap_height"`
	GapWidth  float64 `koanf:"gap_width"`
	CharSize  float64 `koanf:"char_size"`
	CharX     float64 `koanf:"char_x"`
	Spacing   float64 `koanf:"spacing"`
	MinPitch  float64 `koanf:"min_pitch"`
	MaxPitch  float64 `koanf:"max_pitch"`
	Step      float64 `koanf:"step"`
	// Seed fixes obstacle gaps; 0 picks a time-based seed.
	Seed int64 `koanf:"seed"`
}

// AudioConfig selects and shapes the audio source.
type AudioConfig struct {
	// Source is "mic", "tone", or a path to an audio file.
	Source      string  `koanf:"source"`
	Backend     string  `koanf:"backend"`
	SampleRate  int     `koanf:"sample_rate"`
	BlockSize   int     `koanf:"block_size"`
	ToneHz      float64 `koanf:"tone_hz"`
	ToneGlideHz float64 `koanf:"tone_glide_hz"`
}

// FrameConfig controls the frame scheduler.
type FrameConfig struct {
	FPS int `koanf:"fps"`
}

// SFXConfig controls sound effects.
type SFXConfig struct {
	Enabled bool `koanf:"enabled"`
	Volume  int  `koanf:"volume"`
}

// MinBlockSize is the smallest analysis block accepted.
const MinBlockSize = 64

// New returns a Config populated with defaults.
func New() *Config {
	g := game.DefaultGeometry()
	return &Config{
		Game: GameConfig{
			Width:     g.Width,
			Height:    g.Height,
			GapHeight: g.GapHeight,
			GapWidth:  g.GapWidth,
			CharSize:  g.CharSize,
			CharX:     g.CharX,
			Spacing:   g.Spacing,
			MinPitch:  g.MinPitch,
			MaxPitch:  g.MaxPitch,
			Step:      g.Step,
		},
		Audio: AudioConfig{
			Source:     source.KindMic,
			Backend:    capture.BackendMalgo,
			SampleRate: source.DefaultSampleRate,
			BlockSize:  source.DefaultBlockSize,
			ToneHz:     440,
		},
		Frame: FrameConfig{
			FPS: source.DefaultFPS,
		},
		SFX: SFXConfig{
			Volume: 60,
		},
		LogFile: "voiceflap.log",
	}
}

// Geometry converts the game section into playfield constants.
func (c *Config) Geometry() game.Geometry {
	return game.Geometry{
		Width:     c.Game.Width,
		Height:    c.Game.Height,
		GapHeight: c.Game.GapHeight,
		GapWidth:  c.Game.GapWidth,
		CharSize:  c.Game.CharSize,
		CharX:     c.Game.CharX,
		Spacing:   c.Game.Spacing,
		Step:      c.Game.Step,
		MinPitch:  c.Game.MinPitch,
		MaxPitch:  c.Game.MaxPitch,
	}
}

// SourceOptions converts the audio section into source options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Kind:        c.Audio.Source,
		Backend:     c.Audio.Backend,
		SampleRate:  c.Audio.SampleRate,
		BlockSize:   c.Audio.BlockSize,
		FPS:         c.Frame.FPS,
		ToneHz:      c.Audio.ToneHz,
		ToneGlideHz: c.Audio.ToneGlideHz,
	}
}

// SeedOrNow returns the configured seed, or one derived from now.
func (c *Config) SeedOrNow(now time.Time) int64 {
	if c.Game.Seed != 0 {
		return c.Game.Seed
	}
	return now.UnixNano()
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if err := c.Geometry().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}

	switch c.Audio.Source {
	case source.KindMic, source.KindTone:
	default:
		if !decode.Supported(c.Audio.Source) {
			invalid("audio.source must be %q, %q or an audio file path, got %q", source.KindMic, source.KindTone, c.Audio.Source)
		}
	}
	switch c.Audio.Backend {
	case capture.BackendMalgo, capture.BackendPortAudio:
	default:
		invalid("audio.backend must be %q or %q, got %q", capture.BackendMalgo, capture.BackendPortAudio, c.Audio.Backend)
	}
	if c.Audio.SampleRate <= 0 {
		invalid("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BlockSize < MinBlockSize {
		invalid("audio.block_size must be at least %d, got %d", MinBlockSize, c.Audio.BlockSize)
	}
	if c.Audio.Source == source.KindTone && c.Audio.ToneHz <= 0 {
		invalid("audio.tone_hz must be positive, got %v", c.Audio.ToneHz)
	}
	if c.Audio.ToneGlideHz < 0 {
		invalid("audio.tone_glide_hz must not be negative, got %v", c.Audio.ToneGlideHz)
	}
	if c.Frame.FPS <= 0 {
		invalid("frame.fps must be positive, got %d", c.Frame.FPS)
	}
	if c.SFX.Volume < 0 || c.SFX.Volume > 100 {
		invalid("sfx.volume must be in [0, 100], got %d", c.SFX.Volume)
	}

	return errors.Join(errs...)
}
