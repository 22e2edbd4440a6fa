package inline

import "errors"

var (
	// ErrNoFilesystem indicates Options.FS was not set.
	ErrNoFilesystem = errors.New("inline: no filesystem to resolve assets")

	// ErrParse indicates the HTML document could not be parsed or rendered.
	ErrParse = errors.New("inline: invalid html")

	// ErrAssetNotFound indicates a referenced local asset could not be read.
	ErrAssetNotFound = errors.New("inline: asset not found")

	// ErrInvalidPath indicates a reference that resolves outside the filesystem.
	ErrInvalidPath = errors.New("inline: invalid asset path")

	// ErrCompress indicates minification of an asset failed.
	ErrCompress = errors.New("inline: failed to compress asset")
)
