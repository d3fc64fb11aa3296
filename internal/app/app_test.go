// ABOUTME: Tests for the game loop
// ABOUTME: Covers exit reasons, pass counting and source errors with scripted schedulers
package app

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/voiceflap/internal/frame"
	"github.com/Resonate-Protocol/voiceflap/internal/game"
	"github.com/Resonate-Protocol/voiceflap/internal/ui"
	"github.com/Resonate-Protocol/voiceflap/pkg/pitch"
	"github.com/Resonate-Protocol/voiceflap/pkg/source"
)

const testBlock = 1024

type silentSource struct{}

func (silentSource) LatestBlock(block []float32) (int, error) {
	for i := range block {
		block[i] = 0
	}
	return source.DefaultSampleRate, nil
}

func (silentSource) Close() error { return nil }

type failingSource struct{ err error }

func (f failingSource) LatestBlock([]float32) (int, error) { return 0, f.err }
func (f failingSource) Close() error                       { return nil }

type recordingRenderer struct {
	frames []ui.Frame
}

func (r *recordingRenderer) Render(f ui.Frame) {
	r.frames = append(r.frames, f)
}

type countingEffects struct {
	passed int
	over   int
}

func (c *countingEffects) Passed(n int) { c.passed += n }
func (c *countingEffects) GameOver()    { c.over++ }

type fakeObserver struct {
	mu     sync.Mutex
	frames int
	voiced int
	lastHz float64
	passed int
	score  int
	over   int
}

func (f *fakeObserver) ObserveFrame(voiced bool, hz float64, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	if voiced {
		f.voiced++
		f.lastHz = hz
	}
}

func (f *fakeObserver) ObservePassed(passed, score int) {
	f.passed += passed
	f.score = score
}

func (f *fakeObserver) ObserveGameOver(score int) {
	f.over++
	f.score = score
}

func newGame(t *testing.T, geom game.Geometry) *game.Game {
	t.Helper()
	g, err := game.New(geom, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return g
}

// openGeometry has gaps covering almost the whole height
func openGeometry() game.Geometry {
	geom := game.DefaultGeometry()
	geom.GapHeight = geom.Height - 1
	return geom
}

// closedGeometry has gaps too narrow for the character
func closedGeometry() game.Geometry {
	geom := game.DefaultGeometry()
	geom.GapHeight = 1
	return geom
}

func queuedFrames(t *testing.T, n int, stop bool) *frame.Manual {
	t.Helper()
	sched := frame.NewManual(n)
	for i := 0; i < n; i++ {
		require.True(t, sched.Tick())
	}
	if stop {
		sched.Stop()
	}
	return sched
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game is required")
	assert.Contains(t, err.Error(), "source is required")
	assert.Contains(t, err.Error(), "scheduler is required")
	assert.Contains(t, err.Error(), "block size")
}

func TestNewAssignsSessionID(t *testing.T) {
	opts := Options{
		Game:      newGame(t, openGeometry()),
		Source:    silentSource{},
		Scheduler: frame.NewManual(0),
		BlockSize: testBlock,
	}
	a, err := New(opts)
	require.NoError(t, err)
	b, err := New(opts)
	require.NoError(t, err)

	_, err = uuid.Parse(a.SessionID())
	assert.NoError(t, err)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestRunUntilGameOver(t *testing.T) {
	rend := &recordingRenderer{}
	fx := &countingEffects{}
	obs := &fakeObserver{}

	a, err := New(Options{
		Game:      newGame(t, closedGeometry()),
		Source:    source.NewTone(source.DefaultSampleRate, 440),
		Scheduler: queuedFrames(t, 200, true),
		BlockSize: testBlock,
		Renderer:  rend,
		Effects:   fx,
		Metrics:   obs,
	})
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ExitGameOver, res.Reason)
	assert.Equal(t, 161, res.Frames, "first obstacle reaches the character on frame 161")
	assert.Equal(t, a.SessionID(), res.SessionID)
	assert.Equal(t, 0, res.Score)

	require.Len(t, rend.frames, 161)
	last := rend.frames[len(rend.frames)-1]
	assert.True(t, last.GameOver(), "the game over frame is rendered")
	assert.False(t, rend.frames[159].GameOver())
	assert.Equal(t, 1, fx.over)

	assert.Equal(t, 161, obs.frames)
	assert.Equal(t, 161, obs.voiced)
	assert.InDelta(t, 440, obs.lastHz, 5)
	assert.Equal(t, 1, obs.over)
}

func TestToneSteersUpward(t *testing.T) {
	rend := &recordingRenderer{}
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    source.NewTone(source.DefaultSampleRate, 440),
		Scheduler: queuedFrames(t, 30, true),
		BlockSize: testBlock,
		Renderer:  rend,
	})
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rend.frames, 30)
	for i := 1; i < len(rend.frames); i++ {
		assert.Less(t, rend.frames[i].Snapshot.Character.Y, rend.frames[i-1].Snapshot.Character.Y)
	}
	assert.Equal(t, "A", rend.frames[29].Note())
}

func TestRunCountsPasses(t *testing.T) {
	fx := &countingEffects{}
	obs := &fakeObserver{}
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    silentSource{},
		Scheduler: queuedFrames(t, 240, true),
		BlockSize: testBlock,
		Effects:   fx,
		Metrics:   obs,
	})
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ExitSchedulerStopped, res.Reason)
	assert.Equal(t, 240, res.Frames)
	assert.Equal(t, 1, res.Score, "first recycle happens on frame 232")
	assert.Equal(t, 1, fx.passed)
	assert.Equal(t, 0, fx.over)
	assert.Equal(t, 0, obs.voiced)
	assert.Equal(t, 1, obs.passed)
	assert.Equal(t, 1, obs.score)
}

func TestSourceErrorsAreUnvoicedFrames(t *testing.T) {
	rend := &recordingRenderer{}
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    failingSource{err: errors.New("device unplugged")},
		Scheduler: queuedFrames(t, 3, true),
		BlockSize: testBlock,
		Renderer:  rend,
	})
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Frames)
	assert.Equal(t, 3, res.SourceErrors)
	for _, f := range rend.frames {
		assert.Equal(t, pitch.Unvoiced, f.Pitch)
		assert.Equal(t, 360.0, f.Snapshot.Character.Y)
	}
}

func TestRunCancelled(t *testing.T) {
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    silentSource{},
		Scheduler: queuedFrames(t, 5, false),
		BlockSize: testBlock,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ExitCancelled, res.Reason)
	assert.Equal(t, 0, res.Frames)
}

func TestRunQuit(t *testing.T) {
	quit := make(chan struct{})
	close(quit)

	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    silentSource{},
		Scheduler: queuedFrames(t, 5, false),
		BlockSize: testBlock,
		Quit:      quit,
	})
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitQuit, res.Reason)
	assert.Equal(t, 0, res.Frames)
}

func TestRunStopsWhileWaiting(t *testing.T) {
	sched := frame.NewManual(1)
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    silentSource{},
		Scheduler: sched,
		BlockSize: testBlock,
	})
	require.NoError(t, err)

	done := make(chan Result, 1)
	go func() {
		res, _ := a.Run(context.Background())
		done <- res
	}()

	require.True(t, sched.Tick())
	sched.Stop()

	select {
	case res := <-done:
		assert.Equal(t, ExitSchedulerStopped, res.Reason)
		assert.Equal(t, 1, res.Frames)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the scheduler stopped")
	}
}

func TestExitReasonString(t *testing.T) {
	assert.Equal(t, "game over", ExitGameOver.String())
	assert.Equal(t, "quit", ExitQuit.String())
	assert.Equal(t, "ExitReason(9)", ExitReason(9).String())
}

func TestTimedEstimateIsFinite(t *testing.T) {
	obs := &fakeObserver{}
	a, err := New(Options{
		Game:      newGame(t, openGeometry()),
		Source:    source.NewTone(source.DefaultSampleRate, 300),
		Scheduler: queuedFrames(t, 2, true),
		BlockSize: testBlock,
		Metrics:   obs,
	})
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(obs.lastHz))
	assert.InDelta(t, 300, obs.lastHz, 5)
}
