// ABOUTME: Tests for configuration loading
// ABOUTME: Covers file, environment and flag layering plus seed selection
package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/voiceflap/internal/config"
	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Geometry(), convey.ShouldResemble, game.DefaultGeometry())
				convey.So(cfg.Audio.Source, convey.ShouldEqual, "mic")
				convey.So(cfg.Audio.Backend, convey.ShouldEqual, "malgo")
				convey.So(cfg.Audio.SampleRate, convey.ShouldEqual, 44100)
				convey.So(cfg.Audio.BlockSize, convey.ShouldEqual, 2048)
				convey.So(cfg.Frame.FPS, convey.ShouldEqual, 60)
				convey.So(cfg.SFX.Enabled, convey.ShouldBeFalse)
				convey.So(cfg.SFX.Volume, convey.ShouldEqual, 60)
				convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VOICEFLAP_GAME__GAP_HEIGHT", "250")
			_ = os.Setenv("VOICEFLAP_GAME__SEED", "42")
			_ = os.Setenv("VOICEFLAP_AUDIO__SOURCE", "tone")
			_ = os.Setenv("VOICEFLAP_AUDIO__BLOCK_SIZE", "1024")
			_ = os.Setenv("VOICEFLAP_SFX__ENABLED", "true")
			_ = os.Setenv("VOICEFLAP_METRICS_ADDR", ":9464")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Game.GapHeight, convey.ShouldEqual, 250)
				convey.So(cfg.Game.Seed, convey.ShouldEqual, 42)
				convey.So(cfg.Audio.Source, convey.ShouldEqual, "tone")
				convey.So(cfg.Audio.BlockSize, convey.ShouldEqual, 1024)
				convey.So(cfg.SFX.Enabled, convey.ShouldBeTrue)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9464")
				convey.So(cfg.Game.Width, convey.ShouldEqual, 1280)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
game:
  width: 800
  spacing: 300
  min_pitch: 100
  max_pitch: 400
audio:
  source: tone
  tone_hz: 330
  tone_glide_hz: 660
frame:
  fps: 30
debug: true
`
			tmpFile := createTempConfigFile(t, yamlContent)

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Game.Width, convey.ShouldEqual, 800)
				convey.So(cfg.Game.Spacing, convey.ShouldEqual, 300)
				convey.So(cfg.Game.MinPitch, convey.ShouldEqual, 100)
				convey.So(cfg.Game.MaxPitch, convey.ShouldEqual, 400)
				convey.So(cfg.Game.Height, convey.ShouldEqual, 720)
				convey.So(cfg.Audio.ToneHz, convey.ShouldEqual, 330)
				convey.So(cfg.Audio.ToneGlideHz, convey.ShouldEqual, 660)
				convey.So(cfg.Frame.FPS, convey.ShouldEqual, 30)
				convey.So(cfg.Debug, convey.ShouldBeTrue)
				convey.So(cfg.SourceOptions().FPS, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When the YAML file is named by VOICEFLAP_CONFIG and env overrides it", func() {
			tmpFile := createTempConfigFile(t, "frame:\n  fps: 30\n")
			_ = os.Setenv("VOICEFLAP_CONFIG", tmpFile)
			_ = os.Setenv("VOICEFLAP_FRAME__FPS", "90")
			defer clearConfigEnvVars()

			cfg, err := config.Load("")

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Frame.FPS, convey.ShouldEqual, 90)
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then it should report a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML file is malformed", func() {
			tmpFile := createTempConfigFile(t, "game: [unterminated\n")
			_, err := config.Load(tmpFile)

			convey.Convey("Then it should report a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSeedOrNow(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()
		now := time.Unix(100, 5)

		convey.Convey("A zero seed follows the clock", func() {
			convey.So(cfg.SeedOrNow(now), convey.ShouldEqual, now.UnixNano())
		})

		convey.Convey("A fixed seed is kept", func() {
			cfg.Game.Seed = 7
			convey.So(cfg.SeedOrNow(now), convey.ShouldEqual, 7)
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voiceflap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}
