package automation

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/pkg/auth"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer written from the delivery goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

func sampleRequest() model.ContactRequest {
	return model.ContactRequest{
		ID:        "22222222-2222-4222-8222-222222222222",
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Name:      "Anna Berg",
		Email:     "anna@example.com",
		Services:  []string{"Catering"},
		Subscribe: true,
		Stage:     model.StageNew,
		Source:    model.SourceWebsite,
		Tags:      []string{"website"},
	}
}

func TestForward_SkipsWhenUnconfigured(t *testing.T) {
	logger, buf := testLogger()
	f := NewForwarder(Config{}, nil, logger)

	f.Forward(sampleRequest())
	f.Wait()

	require.Contains(t, buf.String(), "webhook not configured, skipping automation")
	require.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestForward_PostsRecord(t *testing.T) {
	var (
		mu      sync.Mutex
		got     map[string]any
		ctype   string
		sigHdr  string
		rawBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		ctype = r.Header.Get("Content-Type")
		sigHdr = r.Header.Get(auth.SignatureHeader)
		rawBody, _ = io.ReadAll(r.Body)
		_ = json.Unmarshal(rawBody, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	logger, buf := testLogger()
	f := NewForwarder(Config{URL: srv.URL, Secret: "s3cret"}, srv.Client(), logger)

	f.Forward(sampleRequest())
	f.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "application/json", ctype)
	require.Equal(t, "22222222-2222-4222-8222-222222222222", got["id"])
	require.Equal(t, "anna@example.com", got["email"])
	require.Equal(t, "new", got["stage"])
	require.Equal(t, "website-kontakt", got["source"])
	require.Equal(t, true, got["subscribe"])
	require.True(t, strings.HasPrefix(sigHdr, "sha256="))
	require.Equal(t, auth.ComputeSignature("s3cret", rawBody), strings.TrimPrefix(sigHdr, "sha256="))
	require.Contains(t, buf.String(), "contact request sent to automation")
}

func TestForward_MetadataUsesCamelCaseKeys(t *testing.T) {
	var (
		mu  sync.Mutex
		got map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ip, utm := "203.0.113.9", "instagram"
	req := sampleRequest()
	req.Metadata = model.RequestMetadata{IPAddress: &ip, UTMSource: &utm}

	f := NewForwarder(Config{URL: srv.URL}, srv.Client(), nil)
	f.Forward(req)
	f.Wait()

	mu.Lock()
	defer mu.Unlock()
	meta, ok := got["metadata"].(map[string]any)
	require.True(t, ok, "metadata missing: %v", got)
	require.Equal(t, "203.0.113.9", meta["ipAddress"])
	require.Equal(t, "instagram", meta["utmSource"])
	require.NotContains(t, meta, "ip_address")
	require.Equal(t, "anna@example.com", got["email"])
}

func TestForward_LogsNon2xxWithID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	logger, buf := testLogger()
	f := NewForwarder(Config{URL: srv.URL}, srv.Client(), logger)

	f.Forward(sampleRequest())
	f.Wait()

	out := buf.String()
	require.Contains(t, out, "webhook delivery failed")
	require.Contains(t, out, "22222222-2222-4222-8222-222222222222")
	require.Contains(t, out, "502")
}

func TestForward_LogsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	logger, buf := testLogger()
	f := NewForwarder(Config{URL: url}, nil, logger)

	f.Forward(sampleRequest())
	f.Wait()

	require.Contains(t, buf.String(), "webhook delivery failed")
	require.Contains(t, buf.String(), "22222222-2222-4222-8222-222222222222")
}

func TestForward_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	logger, _ := testLogger()
	f := NewForwarder(Config{URL: srv.URL}, srv.Client(), logger)

	done := make(chan struct{})
	go func() {
		f.Forward(sampleRequest())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Forward blocked on the webhook response")
	}
	close(release)
	f.Wait()
}
