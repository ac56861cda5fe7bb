package memory

import "github.com/modernreader/orchestrator/pkg/embedding"

// MemoryStore is the façade the Gateway and Orchestrator depend on, hiding
// the three sub-stores behind one handle on a single sqlite file.
type MemoryStore struct {
	Prefs     *PreferenceStore
	Bookmarks *BookmarkStore
	RAG       *RAGStore

	store *Store
}

func New(path string, embedder embedding.EmbeddingProvider) (*MemoryStore, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		Prefs:     NewPreferenceStore(s),
		Bookmarks: NewBookmarkStore(s),
		RAG:       NewRAGStore(s, embedder),
		store:     s,
	}, nil
}

func (m *MemoryStore) Close() error {
	return m.store.Close()
}
