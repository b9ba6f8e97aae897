// Package hrtf turns measured head-related impulse responses into a dense
// directional grid for binaural rendering.
//
// The work is split into subpackages that run in this order:
//
//   - sofa: validates the measurement dataset handed over by a loader
//   - layout: clusters measurement positions into fields, elevation rings
//     and azimuth slots
//   - grid: allocates shared impulse storage and indexes every slot, then
//     checks completeness once measurements are in
//   - assign: snaps every measurement onto its slot, resampling if needed
//   - onset: refines per-slot delays from an upsampled peak search
//   - magnitude: replaces every response with its magnitude spectrum on a
//     pool of workers
//
// pipeline.Load wires these together. This package only holds the error
// categories shared by all of them.
package hrtf
