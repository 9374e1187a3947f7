package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/wneessen/go-mail"
)

// SMTPConfig configures the relay used by SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers email through an SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender. Nothing is dialled until Send.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the relay, delivers e and hangs up. The Message-ID is returned
// as the receipt id.
func (s *SMTPSender) Send(ctx context.Context, e Email) (Receipt, error) {
	msg, err := buildMessage(e)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("smtp", "error").Inc()
		return Receipt{}, err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("smtp", "error").Inc()
		return Receipt{}, fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues("smtp", "error").Inc()
		return Receipt{}, fmt.Errorf("smtp send: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("smtp", "sent").Inc()
	return Receipt{ID: messageID(msg), Status: "sent"}, nil
}

func buildMessage(e Email) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(e.From); err != nil {
		return nil, fmt.Errorf("from address %q: %w", e.From, err)
	}
	if err := m.To(e.To); err != nil {
		return nil, fmt.Errorf("to address %q: %w", e.To, err)
	}
	if e.ReplyTo != "" {
		if err := m.ReplyTo(e.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address %q: %w", e.ReplyTo, err)
		}
	}
	m.Subject(e.Subject)
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, e.Text)
	if e.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, e.HTML)
	}
	return m, nil
}

func messageID(m *mail.Msg) string {
	ids := m.GetGenHeader(mail.HeaderMessageID)
	if len(ids) == 0 {
		return ""
	}
	return strings.Trim(ids[0], "<>")
}
