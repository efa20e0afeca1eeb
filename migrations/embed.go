// Package migrations holds the ordered SQL schema files applied at startup and by tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
