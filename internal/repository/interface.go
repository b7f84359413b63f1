package repository

import (
	"context"

	"github.com/stevenscomputer/site/internal/model"
)

// ContactStore is a relational store holding the contacts table.
// Implementations must bind every value as a statement parameter.
type ContactStore interface {
	// Insert stores msg and returns the generated id. msg.ID is set as well.
	Insert(ctx context.Context, msg *model.ContactMessage) (int64, error)

	// ListRecent returns at most limit records ordered by id descending.
	ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error)

	// Ping runs a trivial round-trip query.
	Ping(ctx context.Context) error

	Close()
}
