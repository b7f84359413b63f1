package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/stevenscomputer/site/internal/model"
)

// MySQLContactStore is the MySQL implementation of ContactStore.
type MySQLContactStore struct {
	db *sql.DB
}

// NewMySQLContactStore creates a MySQLContactStore backed by db.
// db must have been opened with parseTime enabled.
func NewMySQLContactStore(db *sql.DB) *MySQLContactStore {
	return &MySQLContactStore{db: db}
}

var _ ContactStore = (*MySQLContactStore)(nil)

// Insert adds a contacts row and sets msg.ID from LAST_INSERT_ID.
// CreatedAt is left to the column default and is not read back.
func (s *MySQLContactStore) Insert(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, phone, message) VALUES (?, ?, ?, ?)`,
		msg.Name, msg.Email, msg.Phone, msg.Message,
	)
	if err != nil {
		return 0, mysqlStorageError("insert contact", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, mysqlStorageError("insert contact", err)
	}
	msg.ID = id
	return id, nil
}

// ListRecent returns the newest contacts first.
func (s *MySQLContactStore) ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, COALESCE(phone, ''), COALESCE(message, ''), created_at
		 FROM contacts
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, mysqlStorageError("list contacts", err)
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, mysqlStorageError("scan contact", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, mysqlStorageError("list contacts", err)
	}
	return messages, nil
}

func (s *MySQLContactStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return mysqlStorageError("ping", err)
	}
	return nil
}

func (s *MySQLContactStore) Close() { _ = s.db.Close() }

func mysqlStorageError(op string, err error) error {
	se := &StorageError{Op: op, Err: err}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		se.Code = strconv.Itoa(int(myErr.Number))
	}
	return se
}
