// Package layout infers a canonical field/elevation/azimuth grid from
// measured source positions.
//
// Most datasets are uniform and share the renderer's major axis (poles on
// the vertical axis). Infer removes outliers and produces a maximally dense
// layout when possible. Sets with purely random positions or a different
// major axis fail with hrtf.ErrLayout.
//
// Measured angles are never exact, so every comparison uses a tolerance:
// 0.001 m for radii and 0.1 degree for angles.
package layout
