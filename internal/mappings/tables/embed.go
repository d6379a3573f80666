// Package tables embeds the built-in mapping tables.
package tables

import "embed"

// FS contains the declarative mapping tables embedded at compile time.
//
//go:embed *.toml
var FS embed.FS
