package usecases

import (
	"context"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/audit/dto"
	"github.com/meidasupport/supportdesk/internal/domain/audit"
	"github.com/meidasupport/supportdesk/internal/domain/user"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type ListAuditLogsQuery struct {
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    string
	DateFrom    string
	DateTo      string
	Page        int
	PageSize    int
}

type ListAuditLogsResult struct {
	Logs  []*dto.AuditLogDTO
	Total int64
}

type ListAuditLogsUseCase struct {
	auditRepo audit.Repository
	userRepo  user.Repository
	logger    logger.Interface
}

func NewListAuditLogsUseCase(auditRepo audit.Repository, userRepo user.Repository, logger logger.Interface) *ListAuditLogsUseCase {
	return &ListAuditLogsUseCase{
		auditRepo: auditRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (uc *ListAuditLogsUseCase) Execute(ctx context.Context, query ListAuditLogsQuery) (*ListAuditLogsResult, error) {
	filter := audit.ListFilter{
		ActorUserID: query.ActorUserID,
		Action:      query.Action,
		TargetType:  query.TargetType,
		TargetID:    query.TargetID,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
	var err error
	if filter.From, err = parseTimestamp("date_from", query.DateFrom); err != nil {
		return nil, err
	}
	if filter.To, err = parseTimestamp("date_to", query.DateTo); err != nil {
		return nil, err
	}

	logs, total, err := uc.auditRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list audit logs", "error", err)
		return nil, errors.NewInternalError("failed to list audit logs")
	}

	actorIDs := make([]uint, 0, len(logs))
	seen := make(map[uint]bool)
	for _, l := range logs {
		if l.ActorUserID != nil && !seen[*l.ActorUserID] {
			seen[*l.ActorUserID] = true
			actorIDs = append(actorIDs, *l.ActorUserID)
		}
	}
	actors := make(map[uint]*user.User, len(actorIDs))
	if len(actorIDs) > 0 {
		users, err := uc.userRepo.GetByIDs(ctx, actorIDs)
		if err != nil {
			uc.logger.Warnw("failed to load audit actors", "error", err)
		}
		for _, u := range users {
			actors[u.ID()] = u
		}
	}

	items := make([]*dto.AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		item := dto.ToAuditLogDTO(l)
		if l.ActorUserID != nil {
			if u, ok := actors[*l.ActorUserID]; ok {
				email := u.Email().String()
				name := u.DisplayName()
				item.ActorEmail = &email
				item.ActorDisplay = &name
			}
		}
		items = append(items, item)
	}
	return &ListAuditLogsResult{Logs: items, Total: total}, nil
}

func parseTimestamp(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, errors.NewValidationError(field + " must be an RFC3339 timestamp")
	}
	return &t, nil
}
