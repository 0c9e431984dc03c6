package web

import (
	"embed"
)

// App is the built single-page capture app, served on unmatched routes.
//
//go:embed app
var App embed.FS
