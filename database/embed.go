package database

import "embed"

// EmbeddedMigrations, the SQL files under migrations/, compiled into the binary.
// Use fs.Sub(EmbeddedMigrations, "migrations") to reach the files.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
