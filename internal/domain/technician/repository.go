package technician

import "context"

type Repository interface {
	Create(ctx context.Context, t *Technician) error
	Update(ctx context.Context, t *Technician) error
	GetByID(ctx context.Context, id string) (*Technician, error)
	GetByName(ctx context.Context, name string) (*Technician, error)
	List(ctx context.Context, filter Filter) ([]*Technician, error)
}

type Filter struct {
	CenterID   *string
	ActiveOnly bool
}
