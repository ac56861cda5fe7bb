package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestManifest_ETagChangesWhenFileContentChanges(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "segments/a.txt", "hello")

	svc := New(root, []string{"segments/a.txt"}, time.Hour)
	m1, err := svc.GetManifest()
	require.NoError(t, err)

	svc.Invalidate()
	writeTestFile(t, root, "segments/a.txt", "hello world")
	m2, err := svc.GetManifest()
	require.NoError(t, err)

	assert.NotEqual(t, m1.ETag, m2.ETag)
}

func TestManifest_CacheSkipsRecomputeWithinTTL(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "segments/a.txt", "hello")

	svc := New(root, []string{"segments/a.txt"}, time.Hour)
	m1, err := svc.GetManifest()
	require.NoError(t, err)

	writeTestFile(t, root, "segments/a.txt", "changed but cache not invalidated")
	m2, err := svc.GetManifest()
	require.NoError(t, err)

	assert.Equal(t, m1.ETag, m2.ETag)
}

func TestManifest_MissingWhitelistedFileSkipped(t *testing.T) {
	root := t.TempDir()
	svc := New(root, []string{"segments/missing.txt"}, time.Hour)

	m, err := svc.GetManifest()
	require.NoError(t, err)
	assert.Equal(t, 0, m.FileCount)
}

func TestGetFile_RejectsNonWhitelistedPath(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "secret.txt", "nope")

	svc := New(root, []string{"segments/a.txt"}, time.Hour)
	_, err := svc.GetFile("secret.txt")
	assert.Error(t, err)
}

func TestGetFile_ReturnsContentAndHash(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "segments/a.txt", "hello")

	svc := New(root, []string{"segments/a.txt"}, time.Hour)
	fc, err := svc.GetFile("segments/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", fc.Content)
	assert.NotEmpty(t, fc.SHA256)
}

func TestPushHub_WelcomeThenUpdateOnChange(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "segments/a.txt", "hello")
	svc := New(root, []string{"segments/a.txt"}, time.Hour)

	hub := NewPushHub(svc)
	sub, err := hub.Subscribe("client-1")
	require.NoError(t, err)

	welcome := <-sub.Outbox
	assert.Equal(t, FrameWelcome, welcome.Type)

	svc.Invalidate()
	writeTestFile(t, root, "segments/a.txt", "changed")
	_, err = hub.NotifyIfChanged(welcome.ETag, time.Now())
	require.NoError(t, err)

	update := <-sub.Outbox
	assert.Equal(t, FrameUpdate, update.Type)
	assert.True(t, update.Changed)
}

func TestSubscriber_DropsOldestOnOverflow(t *testing.T) {
	sub := newSubscriber("c1")
	for i := 0; i < outboxSize+5; i++ {
		sub.enqueue(Frame{Type: FrameUpdate, TsUnix: int64(i)})
	}
	assert.LessOrEqual(t, len(sub.Outbox), outboxSize)
}
