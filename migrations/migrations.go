// Package migrations embeds the SQL schema applied by the sqlite store.
package migrations

import "embed"

// FS holds the numbered *.up.sql files, applied in lexical order.
//
//go:embed *.up.sql
var FS embed.FS
