// Package memory implements MemoryStore: per-user preferences, append-only
// bookmarks and a lightweight RAG corpus, durable across restarts in a
// single embedded sqlite file, accessed through plain database/sql since
// the domain has no relational joins that would justify an ORM.
package memory

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id TEXT NOT NULL,
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (user_id, key)
);

CREATE TABLE IF NOT EXISTS bookmarks (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	segment_id TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks(user_id);

CREATE TABLE IF NOT EXISTS rag_docs (
	doc_id   TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL,
	text     TEXT NOT NULL,
	tokens   TEXT NOT NULL,
	meta     TEXT NOT NULL DEFAULT '{}',
	embedding BLOB
);
CREATE INDEX IF NOT EXISTS idx_rag_docs_user ON rag_docs(user_id);
`

// Store owns the sqlite connection shared by PreferenceStore, BookmarkStore
// and RAGStore. path is a filesystem path; ":memory:" is valid for tests.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memory: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: single-writer is safest for a local file
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
