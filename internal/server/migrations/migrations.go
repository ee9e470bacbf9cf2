// Package migrations embeds the goose SQL migrations for every supported
// database driver. Each driver has its own directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS
