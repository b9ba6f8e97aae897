// Command makemhr prepares HRIR measurement datasets for binaural rendering.
//
// Usage:
//
//	makemhr layout dataset.json
//	makemhr prepare [--fft-size N] [--rate HZ] [--mono] dataset.json
//	makemhr config init --path makemhr.toml
//
// Datasets are JSON dumps of SOFA files (see package hrtf/sofa).
package main
