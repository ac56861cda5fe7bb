package memory

import (
	"context"
	"database/sql"
)

// KnownDefaults are the preference keys the Gateway always returns even if
// the user has never set them.
var KnownDefaults = map[string]string{
	"voice_speed":     "1.0",
	"preferred_voice": "",
	"reading_mode":    "immersive",
	"language":        "zh-TW",
	"haptics_enabled": "true",
	"scent_enabled":   "true",
}

// PreferenceStore is a last-write-wins per-key map, namespaced by user.
// Unknown keys (outside KnownDefaults) are preserved and returned as-is.
type PreferenceStore struct {
	store *Store
}

func NewPreferenceStore(s *Store) *PreferenceStore {
	return &PreferenceStore{store: s}
}

func (p *PreferenceStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	row := p.store.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE user_id = ? AND key = ?`, userID, key)
	var v string
	switch err := row.Scan(&v); err {
	case nil:
		return v, true, nil
	case sql.ErrNoRows:
		if def, ok := KnownDefaults[key]; ok {
			return def, true, nil
		}
		return "", false, nil
	default:
		return "", false, err
	}
}

func (p *PreferenceStore) Set(ctx context.Context, userID, key, value string) error {
	_, err := p.store.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value)
	return err
}

// All returns every known default merged with the user's stored overrides.
func (p *PreferenceStore) All(ctx context.Context, userID string) (map[string]string, error) {
	out := make(map[string]string, len(KnownDefaults))
	for k, v := range KnownDefaults {
		out[k] = v
	}

	rows, err := p.store.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
