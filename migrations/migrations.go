// Package migrations embeds the schema migrations so binaries and tests
// apply the exact SQL shipped with the build.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
