package agentruntime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConnector_PostRetriesOn5xxThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewHTTPConnector(srv.URL, ConnectorConfig{MaxRetries: 2, BackoffInitialMs: 1})
	out, err := c.Post(context.Background(), "/notify", map[string]any{"device_id": "aromajoin"})
	require.NoError(t, err)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, 2, attempts)
}

func TestHTTPConnector_GetDoesNotRetryOn4xx(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPConnector(srv.URL, ConnectorConfig{MaxRetries: 3, BackoffInitialMs: 1})
	_, err := c.Get(context.Background(), "/status")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

// memVectorConnector is a minimal in-memory VectorConnector, standing in for
// pkg/memory's sqlite-backed RAG corpus or an external vector DB so the
// interface's contract can be exercised without a live store.
type memVectorConnector struct {
	docs map[string][]float32
}

func newMemVectorConnector() *memVectorConnector { return &memVectorConnector{docs: map[string][]float32{}} }

func (m *memVectorConnector) Connect(ctx context.Context) error    { return nil }
func (m *memVectorConnector) Disconnect(ctx context.Context) error { return nil }

func (m *memVectorConnector) Upsert(ctx context.Context, docID string, vector []float32, meta map[string]any) error {
	m.docs[docID] = vector
	return nil
}

func (m *memVectorConnector) Query(ctx context.Context, vector []float32, topK int) ([]string, error) {
	var ids []string
	for id := range m.docs {
		ids = append(ids, id)
	}
	if len(ids) > topK {
		ids = ids[:topK]
	}
	return ids, nil
}

func TestVectorConnector_UpsertThenQueryReturnsDoc(t *testing.T) {
	var c VectorConnector = newMemVectorConnector()
	require.NoError(t, c.Upsert(context.Background(), "doc-1", []float32{0.1, 0.2}, map[string]any{"user_id": "u1"}))

	ids, err := c.Query(context.Background(), []float32{0.1, 0.2}, 5)
	require.NoError(t, err)
	assert.Contains(t, ids, "doc-1")
}
