// Package migrations holds the QuestDB schema for the aggregator.
package migrations

import "embed"

// Files are the *.up.sql and *.down.sql scripts, applied in file-name order.
//
//go:embed *.sql
var Files embed.FS
