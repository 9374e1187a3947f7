package repository

import (
	"context"
	"time"

	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgContactRequestEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRequestEventRepository returns a PostgreSQL-backed ContactRequestEventRepository.
func NewPgContactRequestEventRepository(pool *pgxpool.Pool) ContactRequestEventRepository {
	return &pgContactRequestEventRepository{pool: pool}
}

// Create appends ev and fills in its id and created_at from the database.
func (r *pgContactRequestEventRepository) Create(ctx context.Context, ev *model.ContactRequestEvent) error {
	defer metrics.ObserveStore("contact_request_event_create", time.Now())

	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_request_events (contact_request_id, type, name, email, services, source)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		ev.ContactRequestID, ev.Type, ev.Name, ev.Email, nonNil(ev.Services), ev.Source,
	).Scan(&ev.ID, &ev.CreatedAt)
}
