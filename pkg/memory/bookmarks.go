package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SegmentID string    `json:"segment_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkStore is append-only: bookmarks are never edited, only added or removed.
type BookmarkStore struct {
	store *Store
}

func NewBookmarkStore(s *Store) *BookmarkStore {
	return &BookmarkStore{store: s}
}

func (b *BookmarkStore) Append(ctx context.Context, userID, segmentID, note string) (Bookmark, error) {
	bm := Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		SegmentID: segmentID,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	_, err := b.store.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, user_id, segment_id, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		bm.ID, bm.UserID, bm.SegmentID, bm.Note, bm.CreatedAt.Unix())
	if err != nil {
		return Bookmark{}, err
	}
	return bm, nil
}

func (b *BookmarkStore) List(ctx context.Context, userID string) ([]Bookmark, error) {
	rows, err := b.store.db.QueryContext(ctx,
		`SELECT id, user_id, segment_id, note, created_at FROM bookmarks
		 WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var bm Bookmark
		var createdUnix int64
		if err := rows.Scan(&bm.ID, &bm.UserID, &bm.SegmentID, &bm.Note, &createdUnix); err != nil {
			return nil, err
		}
		bm.CreatedAt = time.Unix(createdUnix, 0).UTC()
		out = append(out, bm)
	}
	return out, rows.Err()
}

func (b *BookmarkStore) Delete(ctx context.Context, userID, id string) error {
	_, err := b.store.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND id = ?`, userID, id)
	return err
}
