// Package database implements the tinyRedis database engine: a registry of
// numbered databases, each wrapping one skiplist behind a reader-writer lock,
// plus the command dispatcher that consumes a framed request and produces a
// display-ready response byte string.
//
// The package focuses on:
//   - The process-wide registry (ids 0..15 preallocated, SELECT creates
//     further ids on first use)
//   - Per-command semantics and reply formatting (DEL, EXISTS, MOVE, RENAME,
//     RENAMENX, TYPE, SET, GET, GETRANGE, plus DUMP at the engine level)
//   - Binary persistence: each database id maps to data/<id>.db, written
//     atomically on shutdown and read back at startup
//
// Concurrency: read-only commands acquire the shared lock of their database,
// mutating commands the exclusive lock. MOVE locks source and target in id
// order so that concurrent opposing moves cannot deadlock. The registry map
// itself is a concurrent map; it only grows (via SELECT) and is never
// replaced.
//
// The dispatcher never returns an error across the transport boundary -
// every domain error is mapped to a reply prefixed "(error) ".
package database
