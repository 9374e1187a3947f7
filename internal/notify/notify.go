// Package notify emails the operations mailbox when a contact request arrives.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bryllupspakken/backend/internal/logging"
	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/model"
)

// Email is the provider-neutral message handed to a Sender.
type Email struct {
	Subject string
	To      string
	From    string
	ReplyTo string
	Text    string
	HTML    string
}

// Receipt is the provider's acknowledgement of an accepted message.
type Receipt struct {
	ID     string
	Status string
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, e Email) (Receipt, error)
}

// Addressing fixes who receives the summary and under which subject.
type Addressing struct {
	To      string
	From    string
	Subject string
}

// Notifier sends the contact request summary through a Sender.
type Notifier struct {
	sender Sender
	addr   Addressing
	logger *slog.Logger
}

// NewNotifier creates a Notifier. A nil logger falls back to slog.Default().
func NewNotifier(sender Sender, addr Addressing, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		addr:   addr,
		logger: logging.OrDefault(logger).With("component", "notify"),
	}
}

// NotifyContactRequest emails a summary of req, with Reply-To set to the submitter.
func (n *Notifier) NotifyContactRequest(ctx context.Context, req model.ContactRequest) error {
	receipt, err := n.sender.Send(ctx, Email{
		Subject: n.addr.Subject,
		To:      n.addr.To,
		From:    n.addr.From,
		ReplyTo: req.Email,
		Text:    Summary(req),
	})
	if err != nil {
		return fmt.Errorf("send contact notification for %s: %w", req.ID, err)
	}
	n.logger.Info("contact notification sent",
		"contact_request_id", req.ID,
		"receipt_id", receipt.ID,
		"status", receipt.Status,
	)
	return nil
}

// LogSender logs emails instead of sending them. Used when SMTP is not configured.
type LogSender struct {
	logger *slog.Logger
	seq    func() string
}

// NewLogSender creates a LogSender. newID generates receipt ids.
func NewLogSender(logger *slog.Logger, newID func() string) *LogSender {
	return &LogSender{logger: logging.OrDefault(logger).With("component", "notify"), seq: newID}
}

func (s *LogSender) Send(_ context.Context, e Email) (Receipt, error) {
	id := s.seq()
	s.logger.Info("email not sent, SMTP not configured",
		"receipt_id", id,
		"to", e.To,
		"reply_to", e.ReplyTo,
		"subject", e.Subject,
		"body_bytes", len(e.Text),
	)
	metrics.EmailsSent.WithLabelValues("log", "queued").Inc()
	return Receipt{ID: id, Status: "queued"}, nil
}
