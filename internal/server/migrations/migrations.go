// Package migrations embeds the goose SQL migrations. The SQL is written in
// the common subset of PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
