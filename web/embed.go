// Package web holds the dashboard templates and stylesheet, compiled into
// the binary.
package web

import "embed"

var (
	//go:embed templates/*.html
	TemplatesFS embed.FS

	//go:embed static/*
	StaticFS embed.FS
)
