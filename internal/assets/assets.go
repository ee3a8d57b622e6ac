// Package assets carries the venue catalog and placeholder image bundled
// into the binary.
package assets

import "embed"

const (
	CatalogName     = "venues.json"
	PlaceholderName = "placeholder.png"
)

//go:embed venues.json placeholder.png
var FS embed.FS
