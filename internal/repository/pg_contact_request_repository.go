package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgContactRequestRepository is the PostgreSQL implementation of ContactRequestRepository.
type PgContactRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRequestRepository creates a PgContactRequestRepository backed by the given pool.
func NewPgContactRequestRepository(pool *pgxpool.Pool) *PgContactRequestRepository {
	return &PgContactRequestRepository{pool: pool}
}

// Ensure PgContactRequestRepository implements ContactRequestRepository at compile time.
var _ ContactRequestRepository = (*PgContactRequestRepository)(nil)

const contactRequestColumns = `id, created_at, name, email, phone, wedding_date, destination,
	guest_count, budget_min, budget_max, services, message, subscribe,
	stage, source, tags, metadata`

// Create inserts req as is. ID and CreatedAt must already be set.
func (r *PgContactRequestRepository) Create(ctx context.Context, req *model.ContactRequest) error {
	defer metrics.ObserveStore("contact_request_create", time.Now())

	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_requests (`+contactRequestColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		req.ID, req.CreatedAt, req.Name, req.Email, req.Phone, req.WeddingDate, req.Destination,
		req.GuestCount, req.BudgetMin, req.BudgetMax, nonNil(req.Services), req.Message, req.Subscribe,
		string(req.Stage), req.Source, nonNil(req.Tags), req.Metadata,
	)
	return err
}

// List returns one page of contact requests and the total number of matches.
func (r *PgContactRequestRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRequest, int, error) {
	defer metrics.ObserveStore("contact_request_list", time.Now())

	q := buildListQuery(opts.Normalize())

	var total int
	if err := r.pool.QueryRow(ctx, q.count, q.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, q.page, q.pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.ContactRequest
	for rows.Next() {
		var (
			c     model.ContactRequest
			stage string
		)
		if err := rows.Scan(
			&c.ID, &c.CreatedAt, &c.Name, &c.Email, &c.Phone, &c.WeddingDate, &c.Destination,
			&c.GuestCount, &c.BudgetMin, &c.BudgetMax, &c.Services, &c.Message, &c.Subscribe,
			&stage, &c.Source, &c.Tags, &c.Metadata,
		); err != nil {
			return nil, 0, err
		}
		c.Stage = model.Stage(stage)
		out = append(out, &c)
	}
	return out, total, rows.Err()
}

// UpdateStage sets the stage of one request. ErrNotFound when no row matches.
func (r *PgContactRequestRepository) UpdateStage(ctx context.Context, id string, stage model.Stage) error {
	defer metrics.ObserveStore("contact_request_update_stage", time.Now())

	tag, err := r.pool.Exec(ctx, `UPDATE contact_requests SET stage = $1 WHERE id = $2`, string(stage), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listQuery holds the SQL for one admin list request.
type listQuery struct {
	count    string
	page     string
	args     []any
	pageArgs []any
}

// sortColumns maps accepted sort keys to SQL columns.
var sortColumns = map[string]string{
	model.SortByName:      "name",
	model.SortByEmail:     "email",
	model.SortByStage:     "stage",
	model.SortByCreatedAt: "created_at",
}

// buildListQuery expects normalized options.
func buildListQuery(opts model.ContactListOptions) listQuery {
	var (
		conditions []string
		args       []any
	)

	if s := strings.TrimSpace(opts.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		p := "$" + strconv.Itoa(len(args))
		conditions = append(conditions,
			"(name ILIKE "+p+" OR email ILIKE "+p+" OR destination ILIKE "+p+" OR phone ILIKE "+p+")")
	}
	if opts.Stage != "" {
		args = append(args, string(opts.Stage))
		conditions = append(conditions, "stage = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.SortOrder == "asc" {
		direction = "ASC"
	}

	pageArgs := append(append([]any(nil), args...), model.ContactRequestsPerPage, opts.Offset())
	limitArg := strconv.Itoa(len(pageArgs) - 1)
	offsetArg := strconv.Itoa(len(pageArgs))

	return listQuery{
		count: `SELECT count(*) FROM contact_requests` + where,
		page: `SELECT ` + contactRequestColumns + ` FROM contact_requests` + where +
			` ORDER BY ` + column + ` ` + direction + `, id ` + direction +
			` LIMIT $` + limitArg + ` OFFSET $` + offsetArg,
		args:     args,
		pageArgs: pageArgs,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// isNoRows maps pgx.ErrNoRows to ErrNotFound.
func isNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
