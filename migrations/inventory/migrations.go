// Package inventory embeds the goose migrations for the inventory service,
// one directory per SQL dialect.
package inventory

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
