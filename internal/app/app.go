// ABOUTME: Application loop tying audio, pitch, game and display together
// ABOUTME: Runs one game update per scheduler frame until the game stops
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/voiceflap/internal/frame"
	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/Resonate-Protocol/voiceflap/internal/ui"
	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
	"github.com/Resonate-Protocol/voiceflap/pkg/source"
)

// ExitReason says why Run returned
type ExitReason int

const (
	ExitGameOver ExitReason = iota
	ExitCancelled
	ExitQuit
	ExitSchedulerStopped
)

func (r ExitReason) String() string {
	switch r {
	case ExitGameOver:
		return "game over"
	case ExitCancelled:
		return "cancelled"
	case ExitQuit:
		return "quit"
	case ExitSchedulerStopped:
		return "scheduler stopped"
	default:
		return fmt.Sprintf("ExitReason(%d)", int(r))
	}
}

// Effects reacts to game events. Implementations must not block.
type Effects interface {
	Passed(n int)
	GameOver()
}

// Observer records per-frame measurements
type Observer interface {
	ObserveFrame(voiced bool, hz float64, estimate time.Duration)
	ObservePassed(passed, score int)
	ObserveGameOver(score int)
}

// Options wires the loop's collaborators. Game, Source, Scheduler and
// BlockSize are required.
type Options struct {
	Game      *game.Game
	Source    source.Source
	Scheduler frame.Scheduler
	BlockSize int

	Estimator *pitch.Estimator
	Renderer  ui.Renderer
	Effects   Effects
	Metrics   Observer

	// Quit stops the loop when closed; nil never fires
	Quit  <-chan struct{}
	Debug bool
}

// Result summarizes a finished run
type Result struct {
	SessionID    string
	Score        int
	Frames       int
	Elapsed      time.Duration
	Reason       ExitReason
	SourceErrors int
}

// App runs a single game session
type App struct {
	game      *game.Game
	src       source.Source
	sched     frame.Scheduler
	estimator *pitch.Estimator
	renderer  ui.Renderer
	effects   Effects
	metrics   Observer
	quit      <-chan struct{}
	debug     bool

	sessionID string
	block     []float32

	sourceErrors int
	lastErr      string
}

// New validates opts and fills in defaults for the optional parts
func New(opts Options) (*App, error) {
	var errs []error
	if opts.Game == nil {
		errs = append(errs, errors.New("game is required"))
	}
	if opts.Source == nil {
		errs = append(errs, errors.New("source is required"))
	}
	if opts.Scheduler == nil {
		errs = append(errs, errors.New("scheduler is required"))
	}
	if opts.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("block size must be positive, got %d", opts.BlockSize))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid app options: %w", err)
	}

	a := &App{
		game:      opts.Game,
		src:       opts.Source,
		sched:     opts.Scheduler,
		estimator: opts.Estimator,
		renderer:  opts.Renderer,
		effects:   opts.Effects,
		metrics:   opts.Metrics,
		quit:      opts.Quit,
		debug:     opts.Debug,
		sessionID: uuid.New().String(),
		block:     make([]float32, opts.BlockSize),
	}
	if a.estimator == nil {
		a.estimator = pitch.NewEstimator()
	}
	if a.renderer == nil {
		a.renderer = ui.Nop{}
	}
	if a.effects == nil {
		a.effects = noEffects{}
	}
	return a, nil
}

// SessionID identifies this run in logs and the UI
func (a *App) SessionID() string {
	return a.sessionID
}

// Run processes frames until the game stops, ctx is done, Quit closes or
// the scheduler stops. Only cancellation returns an error.
func (a *App) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	frames := a.sched.Frames()

	log.Printf("Session %s started", a.sessionID)

	finish := func(reason ExitReason) Result {
		res := Result{
			SessionID:    a.sessionID,
			Score:        a.game.Score(),
			Frames:       a.game.Snapshot().Frames,
			Elapsed:      time.Since(start),
			Reason:       reason,
			SourceErrors: a.sourceErrors,
		}
		log.Printf("Session %s ended (%s): score %d after %d frames in %v",
			res.SessionID, res.Reason, res.Score, res.Frames, res.Elapsed.Round(time.Millisecond))
		return res
	}

	for {
		// Stop requests win over frames that are already queued
		select {
		case <-ctx.Done():
			return finish(ExitCancelled), ctx.Err()
		case <-a.quit:
			return finish(ExitQuit), nil
		default:
		}

		select {
		case <-ctx.Done():
			return finish(ExitCancelled), ctx.Err()
		case <-a.quit:
			return finish(ExitQuit), nil
		case _, ok := <-frames:
			if !ok {
				return finish(ExitSchedulerStopped), nil
			}
			if a.step().GameOver {
				return finish(ExitGameOver), nil
			}
		}
	}
}

// step runs one frame: read audio, estimate pitch, update, then report
func (a *App) step() game.Step {
	e := pitch.Unvoiced
	var took time.Duration

	rate, err := a.src.LatestBlock(a.block)
	if err != nil {
		a.sourceError(err)
	} else {
		t0 := time.Now()
		e = a.estimator.Estimate(a.block, rate)
		took = time.Since(t0)
	}

	st := a.game.Update(e)
	snap := a.game.Snapshot()

	a.renderer.Render(ui.Frame{
		Snapshot:  snap,
		Pitch:     e,
		SessionID: a.sessionID,
	})

	if st.Passed > 0 {
		a.effects.Passed(st.Passed)
	}
	if st.GameOver {
		log.Printf("Game over: score %d at frame %d", st.Score, snap.Frames)
		a.effects.GameOver()
	}

	if a.metrics != nil {
		a.metrics.ObserveFrame(e.Voiced(), e.Hz(), took)
		a.metrics.ObservePassed(st.Passed, st.Score)
		if st.GameOver {
			a.metrics.ObserveGameOver(st.Score)
		}
	}

	if a.debug {
		log.Printf("frame %d: pitch %s note %s y %.1f score %d",
			snap.Frames, e, pitch.Label(e), snap.Character.Y, st.Score)
	}
	return st
}

// sourceError logs a failed read once per distinct message; the frame
// continues as unvoiced
func (a *App) sourceError(err error) {
	a.sourceErrors++
	if msg := err.Error(); msg != a.lastErr {
		log.Printf("Audio read failed, treating frame as unvoiced: %v", err)
		a.lastErr = msg
	}
}

type noEffects struct{}

func (noEffects) Passed(int) {}
func (noEffects) GameOver()  {}
