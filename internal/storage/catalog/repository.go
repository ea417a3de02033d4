package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository wraps the catalog database: recent comparisons and settings.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecentCompare is one remembered open: a pair, or a single file with an
// empty RightPath.
type RecentCompare struct {
	ID        string    `json:"id"`
	LeftPath  string    `json:"leftPath"`
	RightPath string    `json:"rightPath,omitempty"`
	OpenedAt  time.Time `json:"openedAt" ts_type:"string"`
}

// UpsertRecent records a comparison, refreshing opened_at when the same pair
// is opened again.
func (r *Repository) UpsertRecent(ctx context.Context, leftPath, rightPath string, openedAt time.Time) (RecentCompare, error) {
	if leftPath == "" {
		return RecentCompare{}, fmt.Errorf("left path is required")
	}
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recent_compares (id, left_path, right_path, opened_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (left_path, right_path) DO UPDATE SET opened_at = excluded.opened_at
	`, id, leftPath, rightPath, openedAt.UTC())
	if err != nil {
		return RecentCompare{}, fmt.Errorf("upsert recent: %w", err)
	}

	var rec RecentCompare
	row := r.db.QueryRowContext(ctx, `
		SELECT id, left_path, right_path, opened_at
		FROM recent_compares WHERE left_path = ? AND right_path = ?
	`, leftPath, rightPath)
	if err := row.Scan(&rec.ID, &rec.LeftPath, &rec.RightPath, &rec.OpenedAt); err != nil {
		return RecentCompare{}, fmt.Errorf("read back recent: %w", err)
	}
	return rec, nil
}

func (r *Repository) ListRecents(ctx context.Context, limit int) ([]RecentCompare, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, left_path, right_path, opened_at
		FROM recent_compares
		ORDER BY opened_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recents: %w", err)
	}
	defer rows.Close()

	var recents []RecentCompare
	for rows.Next() {
		var rec RecentCompare
		if err := rows.Scan(&rec.ID, &rec.LeftPath, &rec.RightPath, &rec.OpenedAt); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		recents = append(recents, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recents: %w", err)
	}
	return recents, nil
}

func (r *Repository) DeleteRecent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recent_compares WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recent: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PruneRecents keeps only the newest keep rows.
func (r *Repository) PruneRecents(ctx context.Context, keep int) error {
	if keep <= 0 {
		keep = 20
	}
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM recent_compares WHERE id NOT IN (
			SELECT id FROM recent_compares ORDER BY opened_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("prune recents: %w", err)
	}
	return nil
}

// GetSetting returns the stored value or fallback when the key is absent.
func (r *Repository) GetSetting(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
