package user

import "context"

type Repository interface {
	// Create inserts the user and sets its ID.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByIDs returns the users found; missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)

	// GetByEmail expects an already normalized address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, user *User) error

	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ListFilter struct {
	Page     int
	PageSize int
	Query    string
	RoleName string
	IsActive *bool
}

type SessionRepository interface {
	Create(ctx context.Context, session *SessionToken) error
	GetByID(ctx context.Context, id string) (*SessionToken, error)
	Update(ctx context.Context, session *SessionToken) error
	// RevokeAllForUser revokes every live session of the user except keepID (may be empty).
	RevokeAllForUser(ctx context.Context, userID uint, keepID string) (int64, error)
	// RevokeFamily revokes every live session rotated from the same login.
	RevokeFamily(ctx context.Context, familyID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
