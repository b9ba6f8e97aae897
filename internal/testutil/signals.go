package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos. Positions outside the buffer
// yield silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// MeasuredResponse imitates a measured head-related impulse response: silence
// up to onset, a unit peak, then seeded noise decaying by 1/e every tau
// samples.
func MeasuredResponse(seed int64, length, onset int, tau float64) []float64 {
	out := make([]float64, length)
	if onset < 0 || onset >= length {
		return out
	}
	out[onset] = 1
	tail := DeterministicNoise(seed, 0.5, length-onset-1)
	for i, v := range tail {
		out[onset+1+i] = v * math.Exp(-float64(i+1)/tau)
	}
	return out
}
