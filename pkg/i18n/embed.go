package i18n

import "embed"

// EmbeddedLocales, the JSON catalogs under locales/, compiled into the binary.
// Use fs.Sub(EmbeddedLocales, "locales") to reach the files.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
