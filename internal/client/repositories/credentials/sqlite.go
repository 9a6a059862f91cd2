package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

func (r *SQLiteRepository) Cache(ctx context.Context, c *models.Credential) error {
	c.LastLogin = time.Now().UTC()
	query := `insert into credentials (collector_id, salt, verifier, name, region, last_login)
		values (?, ?, ?, ?, ?, ?)
		on conflict(collector_id) do update set
			salt = excluded.salt,
			verifier = excluded.verifier,
			name = excluded.name,
			region = excluded.region,
			last_login = excluded.last_login`
	_, err := r.db.ExecContext(ctx, query,
		c.CollectorID, c.Salt, c.Verifier, c.Name, c.Region, c.LastLogin.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to cache credential: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Lookup(ctx context.Context, collectorID string) (*models.Credential, error) {
	query := `select collector_id, salt, verifier, name, region, last_login
		from credentials where collector_id = ?`
	row := r.db.QueryRowContext(ctx, query, collectorID)

	c := &models.Credential{}
	var lastLogin string
	err := row.Scan(&c.CollectorID, &c.Salt, &c.Verifier, &c.Name, &c.Region, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collector %s: %w", collectorID, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	if c.LastLogin, err = time.Parse(time.RFC3339, lastLogin); err != nil {
		return nil, fmt.Errorf("failed to parse last login time: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `delete from credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
