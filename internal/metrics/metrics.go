// ABOUTME: Prometheus metrics for a game session
// ABOUTME: Records frames, passed obstacles and game overs on a private registry
// Package metrics exposes Prometheus instruments for a game session.
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voiceflap"

// estimateBuckets spans a cheap tone block up to a slow frame at 60 fps.
var estimateBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.025, 0.05}

// Recorder owns the instruments and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	frames           prometheus.Counter
	voicedFrames     prometheus.Counter
	obstaclesPassed  prometheus.Counter
	gamesOver        prometheus.Counter
	score            prometheus.Gauge
	pitchHz          prometheus.Gauge
	estimateDuration prometheus.Histogram
}

// New creates a Recorder on its own registry, so default Go runtime
// collectors are not mixed in.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Game frames processed.",
		}),
		voicedFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voiced_frames_total",
			Help:      "Frames with a detectable pitch.",
		}),
		obstaclesPassed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obstacles_passed_total",
			Help:      "Obstacles passed across all games.",
		}),
		gamesOver: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games ended by a collision.",
		}),
		score: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Score of the current game.",
		}),
		pitchHz: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pitch_hz",
			Help:      "Most recent voiced pitch estimate in Hz.",
		}),
		estimateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_duration_seconds",
			Help:      "Time spent estimating pitch for one block.",
			Buckets:   estimateBuckets,
		}),
	}
}

// ObserveFrame records one processed frame. hz is ignored when voiced is false.
func (r *Recorder) ObserveFrame(voiced bool, hz float64, estimate time.Duration) {
	r.frames.Inc()
	r.estimateDuration.Observe(estimate.Seconds())
	if voiced {
		r.voicedFrames.Inc()
		r.pitchHz.Set(hz)
	}
}

// ObservePassed records obstacles passed this frame and the running score.
func (r *Recorder) ObservePassed(passed, score int) {
	if passed > 0 {
		r.obstaclesPassed.Add(float64(passed))
	}
	r.score.Set(float64(score))
}

// ObserveGameOver records the end of a game.
func (r *Recorder) ObserveGameOver(score int) {
	r.gamesOver.Inc()
	r.score.Set(float64(score))
}

// Registry returns the registry holding the instruments.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the instruments in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics listening on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
