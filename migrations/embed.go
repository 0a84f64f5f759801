package migrations

import "embed"

// FS holds the schema initialization scripts.
//
//go:embed *.sql
var FS embed.FS
