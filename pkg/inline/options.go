package inline

import "io/fs"

// DefaultAttribute is the marker attribute checked in attribute mode.
const DefaultAttribute = "inline"

const defaultConcurrency = 8

// Options control a single Inline call.
type Options struct {
	FS       fs.FS  // source of local assets
	RootPath string // directory inside FS that references are relative to

	// Attribute restricts inlining to elements carrying the marker attribute.
	Attribute bool

	// Compress minifies inlined CSS, JavaScript and SVG.
	Compress bool
}

// Option configures an Inliner.
type Option func(*Inliner)

// WithAttributeName changes the marker attribute used in attribute mode.
func WithAttributeName(name string) Option {
	return func(in *Inliner) {
		if name != "" {
			in.attribute = name
		}
	}
}

// WithConcurrency bounds how many assets are read at once.
func WithConcurrency(n int) Option {
	return func(in *Inliner) {
		if n > 0 {
			in.concurrency = n
		}
	}
}
