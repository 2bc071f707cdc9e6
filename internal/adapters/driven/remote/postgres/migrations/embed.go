// Package migrations embeds the remote Postgres schema.
package migrations

import "embed"

// FS contains the golang-migrate up/down scripts.
//
//go:embed *.sql
var FS embed.FS
