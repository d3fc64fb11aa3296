// ABOUTME: Sound effects for obstacle passes and game over
// ABOUTME: Synthesizes short cues and plays them off the game loop goroutine
package sfx

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/Resonate-Protocol/voiceflap/pkg/audio/output"
)

const (
	DefaultSampleRate = 44100

	PassHz       = 880.0
	PassDuration = 50 * time.Millisecond

	OverFromHz   = 660.0
	OverToHz     = 110.0
	OverDuration = 600 * time.Millisecond

	// fade keeps cue edges from clicking
	fade = 5 * time.Millisecond

	queueSize = 8
)

// Cue identifies a sound effect
type Cue int

const (
	CuePass Cue = iota
	CueGameOver
)

// Player plays cues through an audio output
type Player struct {
	out    output.Output
	rate   int
	pass   []float32
	over   []float32
	cues   chan Cue
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// New opens out as a mono stream and starts the playback goroutine.
// volume is 0-100.
func New(out output.Output, sampleRate, volume int) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sfx sample rate %d", sampleRate)
	}
	if err := out.Open(sampleRate, 1); err != nil {
		return nil, fmt.Errorf("failed to open sfx output: %w", err)
	}

	amp := float32(clampVolume(volume)) / 100
	p := &Player{
		out:  out,
		rate: sampleRate,
		pass: Sweep(sampleRate, PassHz, PassHz, PassDuration, amp),
		over: Sweep(sampleRate, OverFromHz, OverToHz, OverDuration, amp),
		cues: make(chan Cue, queueSize),
		done: make(chan struct{}),
	}
	go p.run()

	log.Printf("Sound effects enabled: %dHz, volume %d", sampleRate, clampVolume(volume))
	return p, nil
}

// Passed queues one pass cue per obstacle
func (p *Player) Passed(n int) {
	for i := 0; i < n; i++ {
		p.enqueue(CuePass)
	}
}

// GameOver queues the game over cue
func (p *Player) GameOver() {
	p.enqueue(CueGameOver)
}

// enqueue never blocks the caller; cues are dropped when the queue is full
func (p *Player) enqueue(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.cues <- c:
	default:
	}
}

func (p *Player) run() {
	defer close(p.done)
	for c := range p.cues {
		samples := p.pass
		if c == CueGameOver {
			samples = p.over
		}
		if err := p.out.Write(samples); err != nil {
			log.Printf("sfx write failed: %v", err)
		}
	}
}

// Close plays any queued cues, then releases the output
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.cues)
	p.mu.Unlock()

	<-p.done
	return p.out.Close()
}

// Sweep renders a sine gliding exponentially from fromHz to toHz with
// short fades at both ends, scaled to amp
func Sweep(sampleRate int, fromHz, toHz float64, d time.Duration, amp float32) []float32 {
	rate := beep.SampleRate(sampleRate)
	n := rate.N(d)
	if n <= 0 {
		return nil
	}

	var s beep.Streamer
	if fromHz == toHz {
		tone, err := generators.SineTone(rate, fromHz)
		if err != nil {
			log.Printf("sfx tone %.0fHz unavailable: %v", fromHz, err)
			return nil
		}
		s = beep.Take(n, tone)
	} else {
		s = &glide{from: fromHz, to: toHz, total: n, rate: rate}
	}

	s = &fader{streamer: s, total: n, fade: rate.N(fade)}
	s = &effects.Gain{Streamer: s, Gain: float64(amp) - 1}
	return render(s, n)
}

// render drains up to n frames of s into mono samples
func render(s beep.Streamer, n int) []float32 {
	out := make([]float32, 0, n)
	buf := make([][2]float64, 512)
	for len(out) < n {
		want := n - len(out)
		if want > len(buf) {
			want = len(buf)
		}
		got, ok := s.Stream(buf[:want])
		for i := 0; i < got; i++ {
			out = append(out, float32(buf[i][0]))
		}
		if !ok || got == 0 {
			break
		}
	}
	return out
}

// glide is a sine oscillator whose frequency moves exponentially over total frames
type glide struct {
	from, to float64
	total    int
	position int
	phase    float64
	rate     beep.SampleRate
}

func (g *glide) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.position >= g.total {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * g.phase)
		samples[i][0] = val
		samples[i][1] = val

		hz := g.from * math.Pow(g.to/g.from, float64(g.position)/float64(g.total))
		g.phase += hz / float64(g.rate)
		g.phase -= math.Floor(g.phase)
		g.position++
	}
	return len(samples), true
}

func (g *glide) Err() error { return nil }

// fader ramps the first and last fade frames linearly
type fader struct {
	streamer beep.Streamer
	total    int
	fade     int
	position int
}

func (f *fader) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	fadeLen := f.fade
	if fadeLen*2 > f.total {
		fadeLen = f.total / 2
	}
	for i := 0; i < n; i++ {
		vol := 1.0
		if fadeLen > 0 {
			if f.position < fadeLen {
				vol = float64(f.position) / float64(fadeLen)
			} else if rem := f.total - 1 - f.position; rem < fadeLen {
				vol = float64(rem) / float64(fadeLen)
			}
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fader) Err() error { return f.streamer.Err() }

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
