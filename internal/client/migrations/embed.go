// Package migrations embeds the goose migrations applied to the local cache
// database at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
