package migrations

import "embed"

// FS holds the web client storage schema migrations.
//
//go:embed *.sql
var FS embed.FS
