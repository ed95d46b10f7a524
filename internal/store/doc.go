// Package store keeps the bot's state in named in-memory collections of
// schema-less documents and snapshots them to a single SQLite file.
//
// The snapshot file contains two tables:
//
//	collections(name TEXT PRIMARY KEY, options TEXT)
//	documents(collection TEXT, id INTEGER, body TEXT, PRIMARY KEY (collection, id))
//
// Options and document bodies are JSON. The in-memory state is written back
// on Save, on Close and periodically while the store is open.
package store
