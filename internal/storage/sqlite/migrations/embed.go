package migrations

import "embed"

// FS contains embedded SQLite migrations for roll-engine storage.
//
//go:embed *.sql
var FS embed.FS
