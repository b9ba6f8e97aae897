// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by external FFT backends and turns them into
// magnitude responses, using SIMD kernels from algo-vecmath where available.
package spectrum
