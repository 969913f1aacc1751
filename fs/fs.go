package appfs

import "embed"

// FS holds the database migrations, one directory per dialect.
//
//go:embed migrations
var FS embed.FS
