package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/internal/entity"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	m, err := New(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPreferences_DefaultsThenOverride(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	v, ok, err := m.Prefs.Get(ctx, "u1", "reading_mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "immersive", v)

	require.NoError(t, m.Prefs.Set(ctx, "u1", "reading_mode", "focus"))
	v, ok, err = m.Prefs.Get(ctx, "u1", "reading_mode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "focus", v)

	require.NoError(t, m.Prefs.Set(ctx, "u1", "custom_key", "xyz"))
	all, err := m.Prefs.All(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "focus", all["reading_mode"])
	assert.Equal(t, "xyz", all["custom_key"])
	assert.Equal(t, "zh-TW", all["language"])
}

func TestPreferences_UnsetUnknownKeyIsAbsent(t *testing.T) {
	m := newTestStore(t)
	_, ok, err := m.Prefs.Get(context.Background(), "u1", "never_set")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookmarks_AppendAndList(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	bm1, err := m.Bookmarks.Append(ctx, "u1", "seg-1", "favorite line")
	require.NoError(t, err)
	_, err = m.Bookmarks.Append(ctx, "u1", "seg-2", "")
	require.NoError(t, err)

	list, err := m.Bookmarks.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, bm1.ID, list[0].ID)
}

func TestRAG_UpsertThenQueryReturnsTopK(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	docs := []entity.RAGDoc{
		{DocID: "d1", Text: "the bedtime story features a brave little dragon"},
		{DocID: "d2", Text: "a recipe for chocolate cake and sugar"},
		{DocID: "d3", Text: "dragon stories for bedtime reading"},
	}
	for _, d := range docs {
		require.NoError(t, m.RAG.Upsert(ctx, "u1", d))
	}

	results, err := m.RAG.Query(ctx, "u1", "dragon bedtime story", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, []string{"d1", "d3"}, results[0].Doc.DocID)
	assert.Contains(t, []string{"d1", "d3"}, results[1].Doc.DocID)
}

func TestRAG_TopKClamped(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "d1", Text: "hello world"}))

	results, err := m.RAG.Query(ctx, "u1", "hello", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRAG_ExplicitDocReferenceAlwaysSurfaces(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "unrelated-1", Text: "completely different topic about trains"}))
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "other", Text: "gardening tips for spring"}))

	results, err := m.RAG.Query(ctx, "u1", "@doc:unrelated-1 tell me more", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "unrelated-1", results[0].Doc.DocID)
}

func TestRAG_Delete(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "d1", Text: "hello world"}))
	require.NoError(t, m.RAG.Delete(ctx, "u1", "d1"))

	list, err := m.RAG.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJaccard_TieBrokenByShorterDocID(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "zz", Text: "apple banana"}))
	require.NoError(t, m.RAG.Upsert(ctx, "u1", entity.RAGDoc{DocID: "a", Text: "apple banana"}))

	results, err := m.RAG.Query(ctx, "u1", "apple banana", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Doc.DocID)
}
