package audit

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, log *Log) error
	List(ctx context.Context, filter ListFilter) ([]*Log, int64, error)
}

type ListFilter struct {
	ActorUserID *uint
	Action      string
	TargetType  string
	TargetID    string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}
