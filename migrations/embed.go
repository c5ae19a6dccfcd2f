// Package migrations embeds the versioned SQL schema migrations for the message store.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
