// Package gamedata provides the embedded terrain data and utilities for
// loading it or an override file from disk.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
