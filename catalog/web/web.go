package web

import "embed"

// Templates holds the html pages; every page extends templates/base.html.
//
//go:embed templates/*.html
var Templates embed.FS
