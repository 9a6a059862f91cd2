package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/common"
	"github.com/herblock/herblock/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const eventColumns = `id, product_id, species, scientific_name, lat, lon, accuracy,
	collector_id, quantity, unit, notes, timestamp, status, tx_id, created_at, synced_at`

func (r *SQLiteRepository) Save(ctx context.Context, e *models.CollectionEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `insert into collections (` + eventColumns + `)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.ProductID, e.Species, e.ScientificName, e.Lat, e.Lon, nullFloat(e.Accuracy),
		e.CollectorID, e.Quantity, e.Unit, e.Notes, e.Timestamp.UTC().Format(time.RFC3339),
		string(e.Status), nullStr(e.TxID), e.CreatedAt.Format(time.RFC3339), nullTime(e.SyncedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("event %s: %w", e.ID, common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to insert collection event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, filter models.StatusFilter) ([]*models.CollectionEvent, error) {
	query := `select ` + eventColumns + ` from collections`
	args := []any{}
	switch filter {
	case models.FilterPending:
		query += ` where status = ?`
		args = append(args, string(models.StatusPending))
	case models.FilterSynced:
		query += ` where status = ?`
		args = append(args, string(models.StatusSynced))
	}
	query += ` order by timestamp desc limit 100`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select collection events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]*models.CollectionEvent, error) {
	query := `select ` + eventColumns + ` from collections where status = ? order by timestamp asc`
	rows, err := r.db.QueryContext(ctx, query, string(models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to select pending events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `update collections set status=? where id=?`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("failed to update event status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, txID string) (bool, error) {
	query := `update collections set status=?, tx_id=?, synced_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query,
		string(models.StatusSynced), txID, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark event synced: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `delete from collections where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `delete from collections`)
	if err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Stats(ctx context.Context) (*models.SyncStats, error) {
	query := `select
		count(*),
		count(case when status = 'pending' then 1 end),
		count(case when status = 'synced' then 1 end),
		count(case when status = 'rejected' then 1 end),
		count(case when status = 'synced' and date(synced_at) = date('now') then 1 end),
		max(synced_at)
	from collections`

	s := &models.SyncStats{}
	var lastSync sql.NullString
	err := r.db.QueryRowContext(ctx, query).
		Scan(&s.Total, &s.Pending, &s.Synced, &s.Rejected, &s.SyncedToday, &lastSync)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to compute sync stats: %w", err)
	}
	if lastSync.Valid {
		t, err := time.Parse(time.RFC3339, lastSync.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last sync time: %w", err)
		}
		s.LastSyncAt = &t
	}
	return s, nil
}

func scanEvents(rows *sql.Rows) ([]*models.CollectionEvent, error) {
	var result []*models.CollectionEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEvent(rows *sql.Rows) (*models.CollectionEvent, error) {
	e := &models.CollectionEvent{}
	var (
		accuracy sql.NullFloat64
		txID     sql.NullString
		status   string
		ts       string
		created  string
		syncedAt sql.NullString
	)
	err := rows.Scan(&e.ID, &e.ProductID, &e.Species, &e.ScientificName, &e.Lat, &e.Lon, &accuracy,
		&e.CollectorID, &e.Quantity, &e.Unit, &e.Notes, &ts, &status, &txID, &created, &syncedAt)
	if err != nil {
		return nil, fmt.Errorf("row scan failed: %w", err)
	}

	e.Status = models.Status(status)
	if accuracy.Valid {
		e.Accuracy = &accuracy.Float64
	}
	if txID.Valid {
		e.TxID = &txID.String
	}
	if e.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
		return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("failed to parse event created_at: %w", err)
	}
	if syncedAt.Valid {
		t, err := time.Parse(time.RFC3339, syncedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event synced_at: %w", err)
		}
		e.SyncedAt = &t
	}
	return e, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
