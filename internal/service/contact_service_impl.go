package service

import (
	"context"

	"github.com/stevenscomputer/site/internal/model"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	gateway ContactGateway
}

// NewContactService creates a ContactService backed by the given gateway.
func NewContactService(gateway ContactGateway) ContactService {
	return &contactServiceImpl{gateway: gateway}
}

// Submit rejects invalid messages before touching the gateway, so a failed
// validation never inserts a row.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	if err := Validate(msg); err != nil {
		return 0, err
	}
	return s.gateway.Insert(ctx, msg)
}

func (s *contactServiceImpl) ListRecent(ctx context.Context) ([]*model.ContactMessage, error) {
	return s.gateway.ListRecent(ctx, model.RecentContactsLimit)
}
