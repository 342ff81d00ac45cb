package sql

import "embed"

// Content carries the schema files applied at boot.
//
//go:embed schema/*.sql
var Content embed.FS
