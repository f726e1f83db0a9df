// Package migrations holds the postgres schema, applied in order by
// golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
