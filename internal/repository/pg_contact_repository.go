package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stevenscomputer/site/internal/model"
)

// PgContactStore is the PostgreSQL implementation of ContactStore.
type PgContactStore struct {
	pool *pgxpool.Pool
}

// NewPgContactStore creates a PgContactStore backed by the given pool.
func NewPgContactStore(pool *pgxpool.Pool) *PgContactStore {
	return &PgContactStore{pool: pool}
}

var _ ContactStore = (*PgContactStore)(nil)

// Insert adds a contacts row and populates msg.ID and msg.CreatedAt from the
// RETURNING clause.
func (s *PgContactStore) Insert(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Phone, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return 0, pgStorageError("insert contact", err)
	}
	return msg.ID, nil
}

// ListRecent returns the newest contacts first.
func (s *PgContactStore) ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(message, ''), created_at
		 FROM contacts
		 ORDER BY id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, pgStorageError("list contacts", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, pgStorageError("scan contact", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, pgStorageError("list contacts", err)
	}
	return messages, nil
}

func (s *PgContactStore) Ping(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return pgStorageError("ping", err)
	}
	return nil
}

func (s *PgContactStore) Close() { s.pool.Close() }

func pgStorageError(op string, err error) error {
	se := &StorageError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.Code = pgErr.Code
	}
	return se
}
