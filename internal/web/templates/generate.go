// Package templates holds the templ sources for the web UI. The *_templ.go
// files are generated from the .templ files alongside them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path .
