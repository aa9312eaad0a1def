// Package migrations holds the goose SQL migrations of the bot database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
