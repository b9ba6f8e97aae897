// Package resample provides rational sample-rate conversion using polyphase FIR
// filtering with anti-aliasing defaults.
//
// Quality modes:
//   - QualityFast: lower CPU, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: higher attenuation and flatter passband
//
// Default quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
//
// Conversion works on whole blocks. ProcessBlock compensates the prototype's
// group delay, so an impulse at input sample k lands at output sample
// k*up/down. A Resampler is built once with NewRational and reused for
// every block with caller-owned buffers.
package resample
