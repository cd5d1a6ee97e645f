// Package sqlite provides a SQLite-based implementation of the record store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements every entity store
// through a single database connection:
//
//   - ArticleStore: articles with lightweight segment copies
//   - SegmentStore: full segments keyed by article and index
//   - FlashcardStore: flashcards with indexes on article, stage, next review, type and level
//   - SettingsStore: the single settings record
//   - CollectionStore: article collections
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Records are stored as JSON in a data column; indexed fields are copied into
// their own columns.
//
// # Data Location
//
// By default, the database is stored at ~/.lingua/data/lingua.db
//
// # Transactions
//
// RunInTx carries the transaction in the context. Read-write transactions are
// serialized within the process and take the SQLite write lock immediately.
package sqlite
