// Package config loads apiprobe settings.
//
// Settings come from .apiprobe.json, .apiprobe.yaml or .apiprobe.yml in the
// working directory, or from an explicit path. Absent values keep the
// defaults from DefaultConfig, and command-line flags are layered on top
// with Merge.
package config
