// Package file provides a TOML file-based implementation of the settings
// store driven port. Settings live in a single config.toml under the
// Recollect config directory, written with restricted permissions because
// they may contain an API key.
package file
