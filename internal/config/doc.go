// Package config loads the TOML configuration of the makemhr command: the
// pipeline settings, how progress is shown and how logs are written.
//
// Loading follows three steps: start from Default, decode the file over it,
// then normalize and Validate.
package config
