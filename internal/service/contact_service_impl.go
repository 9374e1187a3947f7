package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bryllupspakken/backend/internal/contactform"
	"github.com/bryllupspakken/backend/internal/logging"
	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/internal/repository"
	"github.com/google/uuid"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	requests  repository.ContactRequestRepository
	events    repository.ContactRequestEventRepository
	notifier  ContactNotifier
	forwarder ContactForwarder
	logger    *slog.Logger
}

// NewContactService wires the pipeline stages together. A nil logger falls
// back to slog.Default().
func NewContactService(
	requests repository.ContactRequestRepository,
	events repository.ContactRequestEventRepository,
	notifier ContactNotifier,
	forwarder ContactForwarder,
	logger *slog.Logger,
) ContactService {
	return &contactServiceImpl{
		requests:  requests,
		events:    events,
		notifier:  notifier,
		forwarder: forwarder,
		logger:    logging.OrDefault(logger).With("component", "contact"),
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, input model.ContactRequestInput, meta model.RequestMetadata) (*model.ContactRequest, error) {
	if err := contactform.Validate(input).Err(); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	req, err := s.persist(ctx, input, meta)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.ResultPersistFailed).Inc()
		return nil, err
	}
	metrics.ContactSubmissions.WithLabelValues(metrics.ResultCreated).Inc()

	if err := s.notifier.NotifyContactRequest(ctx, req.Clone()); err != nil {
		metrics.SideEffectFailures.WithLabelValues(metrics.StageNotify).Inc()
		s.logger.Error("contact notification failed", "contact_request_id", req.ID, "error", err)
	}

	s.forwarder.Forward(req.Clone())
	return req, nil
}

// persist writes the request and then its creation event. Only the request
// insert can fail the submission.
func (s *contactServiceImpl) persist(ctx context.Context, input model.ContactRequestInput, meta model.RequestMetadata) (*model.ContactRequest, error) {
	tag := model.DefaultTag
	if meta.UTMSource != nil && *meta.UTMSource != "" {
		tag = *meta.UTMSource
	}
	services := input.Services
	if services == nil {
		services = []string{}
	}

	req := &model.ContactRequest{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		WeddingDate: input.WeddingDate,
		Destination: input.Destination,
		GuestCount:  input.GuestCount,
		BudgetMin:   input.BudgetMin,
		BudgetMax:   input.BudgetMax,
		Services:    services,
		Message:     input.Message,
		Subscribe:   input.Subscribe,
		Stage:       model.StageNew,
		Source:      model.SourceWebsite,
		Tags:        []string{tag},
		Metadata:    meta,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error("contact request insert failed",
			"contact_request_id", req.ID,
			"email", req.Email,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	ev := &model.ContactRequestEvent{
		ContactRequestID: req.ID,
		Type:             model.EventContactRequestCreated,
		Name:             req.Name,
		Email:            req.Email,
		Services:         append([]string(nil), req.Services...),
		Source:           req.Source,
	}
	if err := s.events.Create(ctx, ev); err != nil {
		metrics.SideEffectFailures.WithLabelValues(metrics.StageEvent).Inc()
		s.logger.Error("contact request event insert failed",
			"contact_request_id", req.ID,
			"event_type", ev.Type,
			"error", err,
		)
	}

	s.logger.Info("contact request created", "contact_request_id", req.ID, "source", req.Source)
	return req, nil
}

func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactRequestPage, error) {
	opts = opts.Normalize()
	items, total, err := s.requests.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	if items == nil {
		items = []*model.ContactRequest{}
	}
	return &model.ContactRequestPage{
		ContactRequests: items,
		Pagination:      model.NewPagination(opts.Page, total),
		Filters:         opts,
	}, nil
}

func (s *contactServiceImpl) UpdateStage(ctx context.Context, id string, stage model.Stage) error {
	if !stage.Valid() {
		return ErrInvalidStage
	}
	if err := s.requests.UpdateStage(ctx, id, stage); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update stage of %s: %w", id, err)
	}
	s.logger.Info("contact request stage updated", "contact_request_id", id, "stage", stage)
	return nil
}
