// Package web embeds the HTML templates and static assets served by the router.
package web

import "embed"

//go:embed template/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
