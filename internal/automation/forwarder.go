// Package automation forwards persisted contact requests to an external
// workflow tool (n8n) over a webhook.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bryllupspakken/backend/internal/logging"
	"github.com/bryllupspakken/backend/internal/metrics"
	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/pkg/auth"
)

// Config configures the webhook target. An empty URL disables forwarding.
type Config struct {
	URL    string
	Secret string
}

// Forwarder posts contact requests to the automation webhook without
// blocking the caller. Failures are logged and dropped.
type Forwarder struct {
	url    string
	secret string
	client *http.Client
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewForwarder creates a Forwarder. A nil client uses a plain http.Client
// with no timeout of its own.
func NewForwarder(cfg Config, client *http.Client, logger *slog.Logger) *Forwarder {
	if client == nil {
		client = &http.Client{}
	}
	return &Forwarder{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: client,
		logger: logging.OrDefault(logger).With("component", "automation"),
	}
}

// Forward starts delivery of req in its own goroutine and returns at once.
func (f *Forwarder) Forward(req model.ContactRequest) {
	if f.url == "" {
		f.logger.Info("webhook not configured, skipping automation", "contact_request_id", req.ID)
		metrics.WebhookDeliveries.WithLabelValues(metrics.DeliverySkipped).Inc()
		return
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				f.logger.Error("webhook delivery panicked", "contact_request_id", req.ID, "panic", r)
				metrics.WebhookDeliveries.WithLabelValues(metrics.DeliveryFailed).Inc()
			}
		}()

		if err := f.deliver(context.Background(), req); err != nil {
			f.logger.Error("webhook delivery failed", "contact_request_id", req.ID, "error", err)
			metrics.WebhookDeliveries.WithLabelValues(metrics.DeliveryFailed).Inc()
			return
		}
		f.logger.Info("contact request sent to automation", "contact_request_id", req.ID)
		metrics.WebhookDeliveries.WithLabelValues(metrics.DeliveryDelivered).Inc()
	}()
}

// Wait blocks until every started delivery has finished. Used on shutdown.
func (f *Forwarder) Wait() {
	f.wg.Wait()
}

// StatusError is returned for a non-2xx webhook response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded %d: %s", e.StatusCode, e.Body)
}

// webhookMetadata keeps the camelCase keys existing n8n flows read.
type webhookMetadata struct {
	IPAddress   *string `json:"ipAddress,omitempty"`
	UserAgent   *string `json:"userAgent,omitempty"`
	Referrer    *string `json:"referrer,omitempty"`
	UTMSource   *string `json:"utmSource,omitempty"`
	UTMMedium   *string `json:"utmMedium,omitempty"`
	UTMCampaign *string `json:"utmCampaign,omitempty"`
}

// webhookPayload is the body posted to the automation webhook.
type webhookPayload struct {
	model.ContactRequest
	Metadata webhookMetadata `json:"metadata"`
}

func newWebhookPayload(req model.ContactRequest) webhookPayload {
	m := req.Metadata
	return webhookPayload{
		ContactRequest: req,
		Metadata: webhookMetadata{
			IPAddress:   m.IPAddress,
			UserAgent:   m.UserAgent,
			Referrer:    m.Referrer,
			UTMSource:   m.UTMSource,
			UTMMedium:   m.UTMMedium,
			UTMCampaign: m.UTMCampaign,
		},
	}
}

func (f *Forwarder) deliver(ctx context.Context, req model.ContactRequest) error {
	body, err := json.Marshal(newWebhookPayload(req))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if f.secret != "" {
		httpReq.Header.Set(auth.SignatureHeader, "sha256="+auth.ComputeSignature(f.secret, body))
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
