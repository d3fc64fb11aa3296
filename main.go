// ABOUTME: Entry point for the VoiceFlap game
// ABOUTME: Parses CLI flags, wires audio, game, UI and effects, and runs a session
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/voiceflap/internal/app"
	"github.com/Resonate-Protocol/voiceflap/internal/config"
	"github.com/Resonate-Protocol/voiceflap/internal/frame"
	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/Resonate-Protocol/voiceflap/internal/metrics"
	"github.com/Resonate-Protocol/voiceflap/internal/sfx"
	"github.com/Resonate-Protocol/voiceflap/internal/ui"
	"github.com/Resonate-Protocol/voiceflap/internal/version"
	"github.com/Resonate-Protocol/voiceflap/pkg/audio/output"
	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
	"github.com/Resonate-Protocol/voiceflap/pkg/source"
)

var (
	configPath  = flag.String("config", "", "YAML config file (default: $VOICEFLAP_CONFIG)")
	sourceName  = flag.String("source", "", "Audio source: mic, tone, or a .mp3/.flac/.opus/.raw file")
	backend     = flag.String("backend", "", "Capture backend for mic: malgo or portaudio")
	toneHz      = flag.Float64("tone-hz", 0, "Frequency of the tone source")
	toneGlideHz = flag.Float64("tone-glide-hz", 0, "Glide the tone source up to this frequency and back")
	logFile     = flag.String("log-file", "", "Log file path (default: voiceflap.log)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs  = flag.Bool("stream-logs", false, "Alias for -no-tui")
	withSFX     = flag.Bool("sfx", false, "Play sound effects")
	metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	fps         = flag.Int("fps", 0, "Frames per second")
	seed        = flag.Int64("seed", 0, "Obstacle seed (0: time-based)")
	debug       = flag.Bool("debug", false, "Log every frame")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Determine if we should use TUI or streaming logs
	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s", version.Banner())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, useTUI)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}

	fmt.Printf("%s: score %d after %.1fs (%s)\n", version.Product, res.Score, res.Elapsed.Seconds(), res.Reason)
}

func run(ctx context.Context, cfg *config.Config, useTUI bool) (app.Result, error) {
	src, err := source.Open(cfg.SourceOptions())
	if err != nil {
		return app.Result{}, fmt.Errorf("failed to open audio source %q: %w", cfg.Audio.Source, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("Error closing audio source: %v", err)
		}
	}()
	log.Printf("Audio source: %s (%dHz, block %d)", cfg.Audio.Source, cfg.Audio.SampleRate, cfg.Audio.BlockSize)

	s := cfg.SeedOrNow(time.Now())
	g, err := game.New(cfg.Geometry(), rand.New(rand.NewSource(s)))
	if err != nil {
		return app.Result{}, err
	}
	log.Printf("Game seed: %d", s)

	sched, err := frame.NewTicker(cfg.Frame.FPS)
	if err != nil {
		return app.Result{}, err
	}
	defer func() {
		sched.Stop()
		st := sched.Stats()
		log.Printf("Frames delivered: %d, late: %d, dropped: %d", st.Delivered, st.Late, st.Dropped)
	}()

	rec := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := rec.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Printf("Metrics server failed: %v", err)
			}
		}()
	}

	var effects app.Effects
	if cfg.SFX.Enabled {
		player, err := sfx.New(output.NewOto(), sfx.DefaultSampleRate, cfg.SFX.Volume)
		if err != nil {
			log.Printf("Sound effects unavailable: %v", err)
		} else {
			effects = player
			defer func() { _ = player.Close() }()
		}
	}

	var (
		renderer ui.Renderer
		control  *ui.Control
		prog     *ui.Program
	)
	if useTUI {
		control = ui.NewControl()
		prog = ui.NewProgram(control)
		go func() {
			if err := prog.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
		defer prog.Stop()
		renderer = prog
	} else {
		renderer = ui.NewLogRenderer(cfg.Frame.FPS)
	}

	opts := app.Options{
		Game:      g,
		Source:    src,
		Scheduler: sched,
		BlockSize: cfg.Audio.BlockSize,
		Estimator: pitch.NewEstimator(),
		Renderer:  renderer,
		Effects:   effects,
		Metrics:   rec,
		Debug:     cfg.Debug,
	}
	if control != nil {
		opts.Quit = control.Quit()
	}

	a, err := app.New(opts)
	if err != nil {
		return app.Result{}, err
	}

	res, err := a.Run(ctx)

	// Leave the game over screen up until the player quits
	if useTUI && res.Reason == app.ExitGameOver {
		select {
		case <-control.Quit():
		case <-ctx.Done():
		}
	}
	return res, err
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "source":
			cfg.Audio.Source = *sourceName
		case "backend":
			cfg.Audio.Backend = *backend
		case "tone-hz":
			cfg.Audio.ToneHz = *toneHz
		case "tone-glide-hz":
			cfg.Audio.ToneGlideHz = *toneGlideHz
		case "log-file":
			cfg.LogFile = *logFile
		case "sfx":
			cfg.SFX.Enabled = *withSFX
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "fps":
			cfg.Frame.FPS = *fps
		case "seed":
			cfg.Game.Seed = *seed
		case "debug":
			cfg.Debug = *debug
		}
	})
}
