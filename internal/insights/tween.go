package insights

import (
	"math"
	"time"
)

// TweenDuration is the length of the count-up and progress animations.
const TweenDuration = time.Second

// EaseOutCubic maps linear progress p in [0,1] to eased progress.
func EaseOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// Tween animates a value from From to To over Duration.
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
	// Round rounds intermediate values, for counters. Progress widths keep
	// their fraction.
	Round bool
}

// At returns the value after elapsed time.
func (t Tween) At(elapsed time.Duration) float64 {
	d := t.Duration
	if d <= 0 {
		d = TweenDuration
	}
	p := math.Min(float64(elapsed)/float64(d), 1)
	if p < 0 {
		p = 0
	}
	v := t.From + (t.To-t.From)*EaseOutCubic(p)
	if t.Round {
		v = math.Round(v)
	}
	return v
}

// Keyframes samples the tween at n+1 evenly spaced points, first and last
// included.
func (t Tween) Keyframes(n int) []float64 {
	if n < 1 {
		n = 1
	}
	d := t.Duration
	if d <= 0 {
		d = TweenDuration
	}
	out := make([]float64, n+1)
	for i := range out {
		out[i] = t.At(d * time.Duration(i) / time.Duration(n))
	}
	return out
}
