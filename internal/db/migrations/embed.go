package migrations

import "embed"

// FS holds the goose SQL migrations. The statements are portable between
// PostgreSQL and SQLite.
//
//go:embed *.sql
var FS embed.FS
