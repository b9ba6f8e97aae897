// Package sofa describes the measurement dataset consumed by the HRIR
// pipeline and validates its metadata.
//
// The layout mirrors what a SOFA (Spatially Oriented Format for Acoustics)
// reader hands back: dimension counts E (emitters), R (receivers), M
// (measurements) and N (samples), plus flat value arrays that carry their
// netCDF attributes. Reading the netCDF container itself is left to a
// [Loader]; this package ships a loader for JSON dumps of such files.
package sofa
