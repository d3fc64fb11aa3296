// ABOUTME: Pitch tuner for checking the audio path without the game
// ABOUTME: Prints frequency, note, octave and cents for every voiced frame
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/voiceflap/internal/config"
	"github.com/Resonate-Protocol/voiceflap/internal/frame"
	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
	"github.com/Resonate-Protocol/voiceflap/pkg/source"
)

var (
	configPath = flag.String("config", "", "YAML config file (default: $VOICEFLAP_CONFIG)")
	sourceName = flag.String("source", "", "Audio source: mic, tone, or an audio file")
	frames     = flag.Int("frames", 0, "Stop after this many frames (0: run until interrupted)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *sourceName != "" {
		cfg.Audio.Source = *sourceName
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	src, err := source.Open(cfg.SourceOptions())
	if err != nil {
		log.Fatalf("Failed to open audio source: %v", err)
	}
	defer func() { _ = src.Close() }()

	sched, err := frame.NewTicker(cfg.Frame.FPS)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("=== Tuner: %s at %dHz, block %d ===\n", cfg.Audio.Source, cfg.Audio.SampleRate, cfg.Audio.BlockSize)

	t := newTuner(os.Stdout, src, pitch.NewEstimator(), cfg.Audio.BlockSize)
	n := 0
	for *frames <= 0 || n < *frames {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sched.Frames():
			if !ok {
				return
			}
		}
		t.frame()
		n++
	}
	log.Printf("Tuner done: %d frames, %d voiced", n, t.voiced)
}

// tuner prints one line per voiced frame
type tuner struct {
	out       io.Writer
	src       source.Source
	estimator *pitch.Estimator
	block     []float32
	voiced    int
}

func newTuner(out io.Writer, src source.Source, est *pitch.Estimator, blockSize int) *tuner {
	return &tuner{
		out:       out,
		src:       src,
		estimator: est,
		block:     make([]float32, blockSize),
	}
}

func (t *tuner) frame() {
	rate, err := t.src.LatestBlock(t.block)
	if err != nil {
		log.Printf("Audio read failed: %v", err)
		return
	}
	e := t.estimator.Estimate(t.block, rate)
	if !e.Voiced() {
		return
	}
	t.voiced++
	note := pitch.NoteOf(e.Hz())
	fmt.Fprintf(t.out, "%8.2f Hz  %-2s %d  %+5.1f cents\n", e.Hz(), note.Name, note.Octave, note.Cents)
}
