package editing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cutlist-editor/internal/cutlist"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cutListSchema = `CREATE TABLE IF NOT EXISTS cut_lists (
	media_id    text PRIMARY KEY,
	duration_ms bigint NOT NULL,
	segments    jsonb NOT NULL,
	thumbnail   jsonb,
	saved_by    text NOT NULL DEFAULT '',
	saved_at    timestamptz NOT NULL
)`

// Connect opens a pgx pool with sane defaults.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	cfg.MinConns = 0
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 60 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// PostgresStore persists cut lists in a PostgreSQL table, one row per media
// item. Segments and thumbnail are stored as jsonb.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the cut_lists table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, cutListSchema); err != nil {
		return fmt.Errorf("create cut_lists table: %w", err)
	}
	return nil
}

// GetCutList implements Store.GetCutList.
func (s *PostgresStore) GetCutList(ctx context.Context, id MediaID) (CutList, bool, error) {
	var (
		cl        CutList
		mediaID   string
		segs      []byte
		thumbnail []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT media_id, duration_ms, segments, thumbnail, saved_by, saved_at
		 FROM cut_lists WHERE media_id = $1`, string(id),
	).Scan(&mediaID, &cl.Duration, &segs, &thumbnail, &cl.SavedBy, &cl.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return CutList{}, false, nil
	}
	if err != nil {
		return CutList{}, false, fmt.Errorf("load cut list %s: %w", id, err)
	}
	cl.MediaID = MediaID(mediaID)

	if err := json.Unmarshal(segs, &cl.Segments); err != nil {
		return CutList{}, false, fmt.Errorf("decode segments of %s: %w", id, err)
	}
	if len(thumbnail) > 0 {
		cl.Thumbnail = &cutlist.Thumbnail{}
		if err := json.Unmarshal(thumbnail, cl.Thumbnail); err != nil {
			return CutList{}, false, fmt.Errorf("decode thumbnail of %s: %w", id, err)
		}
	}
	return cl, true, nil
}

// SaveCutList implements Store.SaveCutList as an upsert.
func (s *PostgresStore) SaveCutList(ctx context.Context, cl CutList) error {
	segs, err := json.Marshal(cl.Segments)
	if err != nil {
		return fmt.Errorf("encode segments of %s: %w", cl.MediaID, err)
	}
	var thumbnail []byte
	if cl.Thumbnail != nil {
		if thumbnail, err = json.Marshal(cl.Thumbnail); err != nil {
			return fmt.Errorf("encode thumbnail of %s: %w", cl.MediaID, err)
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO cut_lists (media_id, duration_ms, segments, thumbnail, saved_by, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (media_id) DO UPDATE SET
			duration_ms = EXCLUDED.duration_ms,
			segments = EXCLUDED.segments,
			thumbnail = EXCLUDED.thumbnail,
			saved_by = EXCLUDED.saved_by,
			saved_at = EXCLUDED.saved_at`,
		string(cl.MediaID), cl.Duration, segs, thumbnail, cl.SavedBy, cl.SavedAt)
	if err != nil {
		return fmt.Errorf("save cut list %s: %w", cl.MediaID, err)
	}
	return nil
}

// ListMediaIDs implements Store.ListMediaIDs.
func (s *PostgresStore) ListMediaIDs(ctx context.Context) ([]MediaID, error) {
	rows, err := s.pool.Query(ctx, `SELECT media_id FROM cut_lists ORDER BY media_id`)
	if err != nil {
		return nil, fmt.Errorf("list cut lists: %w", err)
	}
	defer rows.Close()

	var ids []MediaID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, MediaID(id))
	}
	return ids, rows.Err()
}
