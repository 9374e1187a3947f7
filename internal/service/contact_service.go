package service

import (
	"context"
	"errors"

	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/internal/repository"
)

var (
	// ErrPersistFailed wraps a store error that stopped a submission.
	ErrPersistFailed = errors.New("persist contact request failed")
	// ErrInvalidStage is returned for a stage outside model.Stages.
	ErrInvalidStage = errors.New("invalid stage")
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = repository.ErrNotFound
)

// ContactService defines the contact request pipeline and its admin view.
type ContactService interface {
	// Submit validates input, persists it, records the creation event,
	// emails the operations mailbox and hands the record to automation.
	// Only validation (*contactform.ValidationError) and persistence
	// (ErrPersistFailed) failures are returned.
	Submit(ctx context.Context, input model.ContactRequestInput, meta model.RequestMetadata) (*model.ContactRequest, error)
	// List returns one page of contact requests for the admin view.
	List(ctx context.Context, opts model.ContactListOptions) (*model.ContactRequestPage, error)
	// UpdateStage moves a request to another stage.
	UpdateStage(ctx context.Context, id string, stage model.Stage) error
}

// ContactNotifier is the email step of the pipeline.
type ContactNotifier interface {
	NotifyContactRequest(ctx context.Context, req model.ContactRequest) error
}

// ContactForwarder is the automation step. Forward must not block.
type ContactForwarder interface {
	Forward(req model.ContactRequest)
}
