package repository

import (
	"context"
	"time"

	"github.com/bryllupspakken/backend/internal/model"
)

// DB is the liveness check used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRequestRepository persists contact requests. Stage is the only
// column that may change after insert.
type ContactRequestRepository interface {
	Create(ctx context.Context, req *model.ContactRequest) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRequest, int, error)
	UpdateStage(ctx context.Context, id string, stage model.Stage) error
}

// ContactRequestEventRepository appends contact request events.
type ContactRequestEventRepository interface {
	Create(ctx context.Context, ev *model.ContactRequestEvent) error
}

// AdminUserRepository reads and updates admin accounts.
type AdminUserRepository interface {
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	Create(ctx context.Context, u *model.AdminUser) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// SessionRepository handles persistence for admin sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
