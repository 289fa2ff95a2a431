package usecases

import (
	"context"

	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
)

type mockAuditRepository struct {
	AppendFunc func(ctx context.Context, log *audit.Log) error
	ListFunc   func(ctx context.Context, filter audit.ListFilter) ([]*audit.Log, int64, error)
}

func (m *mockAuditRepository) Append(ctx context.Context, log *audit.Log) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, log)
	}
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Log, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockUserRepository struct {
	user.Repository
	GetByIDsFunc func(ctx context.Context, ids []uint) ([]*user.User, error)
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}
