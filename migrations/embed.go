// Package migrations embeds the SQL schema migrations for the Postgres
// lead store. Applied with cmd/migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
