package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/internal/apierr"
)

func TestHTTPPort_SendPostsPayloadAsJSON(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	port := NewHTTPPort(srv.URL)
	err := port.Send(context.Background(), time.Now().Add(time.Second), map[string]string{"pattern": "pulse"})
	require.NoError(t, err)
	assert.Contains(t, gotBody, "pulse")
}

func TestHTTPPort_SendClassifies4xxAsIncompatible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	port := NewHTTPPort(srv.URL)
	err := port.Send(context.Background(), time.Now().Add(time.Second), map[string]string{})

	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Incompatible, apiErr.Kind)
}

func TestHTTPPort_SendClassifies401AsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	port := NewHTTPPort(srv.URL)
	err := port.Send(context.Background(), time.Now().Add(time.Second), map[string]string{})

	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, apierr.Unauthorized, apiErr.Kind)
}
