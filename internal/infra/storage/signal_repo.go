package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pq "github.com/lib/pq"

	"github.com/jose-valero/signals-janitor/internal/domain"
)

const DefaultTable = "signals"

type SignalRepo struct {
	db    *pgxpool.Pool
	table string // ya quoteado
}

func NewSignalRepo(db *pgxpool.Pool, table string) *SignalRepo {
	if table == "" {
		table = DefaultTable
	}
	return &SignalRepo{db: db, table: pq.QuoteIdentifier(table)}
}

// deleteQuery arma el DELETE de cada política. Debe coincidir con domain.Policy.Evicts.
func deleteQuery(table string, p domain.Policy) string {
	switch p {
	case domain.PolicyStatus:
		return fmt.Sprintf(`
DELETE FROM %s
 WHERE status = 'processed'
    OR (status = 'active' AND created_at < $1)
RETURNING id::text`, table)
	default:
		return fmt.Sprintf(`
DELETE FROM %s
 WHERE created_at < $1
RETURNING id::text`, table)
	}
}

// DeleteEvictable: un solo DELETE ... RETURNING, así el conteo es lo que
// realmente se borró y no lo que matcheaba.
func (r *SignalRepo) DeleteEvictable(ctx context.Context, p domain.Policy, cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, deleteQuery(r.table, p), cutoff)
	if err != nil {
		return nil, pgErr(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, pgErr(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, pgErr(err)
	}
	return ids, nil
}

func (r *SignalRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM `+r.table).Scan(&n); err != nil {
		return 0, pgErr(err)
	}
	return n, nil
}

// Insert es para seeds/tests; los productores reales escriben por su lado.
func (r *SignalRepo) Insert(ctx context.Context, s domain.Signal) (string, error) {
	status := s.Status
	if status == "" {
		status = domain.StatusActive
	}
	payload := s.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id string
	err := r.db.QueryRow(ctx, `
INSERT INTO `+r.table+` (room_id, sender_id, target_id, type, payload, status, created_at)
VALUES ($1,$2,NULLIF($3,''),$4,$5::jsonb,$6,$7)
RETURNING id::text
`, s.RoomID, s.SenderID, s.TargetID, s.Type, string(payload), string(status), createdAt).Scan(&id)
	if err != nil {
		return "", pgErr(err)
	}
	return id, nil
}

// pgErr deja el SQLSTATE visible en el mensaje.
func pgErr(err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return fmt.Errorf("postgres %s: %s: %w", pe.Code, pe.Message, err)
	}
	return err
}
