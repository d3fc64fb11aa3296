// ABOUTME: Pitch detection package documentation
// ABOUTME: Describes the ACF2+ estimator and note mapping helpers
// Package pitch estimates the fundamental frequency of short audio blocks.
//
// The estimator implements ACF2+: an RMS silence gate, edge trimming at the
// first low-amplitude sample on each side, a full autocorrelation, a search
// for the highest correlation peak past the first trough, and parabolic
// interpolation around that peak.
//
// Example:
//
//	est := pitch.NewEstimator()
//	e := est.Estimate(block, 44100)
//	if e.Voiced() {
//	    fmt.Println(e, pitch.Label(e)) // "440 A"
//	}
package pitch
