package service

import (
	"context"

	"github.com/stevenscomputer/site/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates msg and stores it, returning the generated id.
	// Errors match ErrValidation, ErrUnavailable, ErrBusy or ErrStorage.
	Submit(ctx context.Context, msg *model.ContactMessage) (int64, error)

	// ListRecent returns the newest contact messages, at most RecentContactsLimit.
	ListRecent(ctx context.Context) ([]*model.ContactMessage, error)
}

// ContactGateway is the persistence the service needs. *repository.Gateway
// satisfies it.
type ContactGateway interface {
	Insert(ctx context.Context, msg *model.ContactMessage) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error)
}
