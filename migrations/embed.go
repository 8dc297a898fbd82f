// Package migrations embeds the SQL schema migrations so the migrate
// command does not depend on the working directory at runtime.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
