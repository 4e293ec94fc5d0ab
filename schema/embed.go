// Package schema embeds the JSON schemas used to validate tmbridge input files.
package schema

import "embed"

//go:embed results.schema.json
var FS embed.FS
