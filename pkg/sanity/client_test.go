package sanity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient_Hosts(t *testing.T) {
	c := NewClient(Config{ProjectID: "abc", Dataset: "production"})
	require.Equal(t, "https://abc.api.sanity.io", c.baseURL)
	require.Equal(t, DefaultAPIVersion, c.cfg.APIVersion)

	cdn := NewClient(Config{ProjectID: "abc", Dataset: "production", UseCDN: true})
	require.Equal(t, "https://abc.apicdn.sanity.io", cdn.baseURL)

	// Authenticated queries always go to the live API.
	tok := NewClient(Config{ProjectID: "abc", Dataset: "production", UseCDN: true, Token: "t"})
	require.Equal(t, "https://abc.api.sanity.io", tok.baseURL)
}

func TestFetch_NotConfigured(t *testing.T) {
	c := NewClient(Config{ProjectID: "abc"})
	var out []string
	err := c.Fetch(context.Background(), "*", nil, &out)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetch_SendsQueryParamsAndToken(t *testing.T) {
	var gotPath, gotQuery, gotSlug, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotSlug = r.URL.Query().Get("$slug")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ms":3,"query":"x","result":{"id":"d1","name":"Toscana"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{ProjectID: "abc", Dataset: "production", Token: "secret"}, WithBaseURL(srv.URL))
	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.Fetch(context.Background(), `*[slug.current == $slug][0]`, map[string]any{"slug": "toscana"}, &out)
	require.NoError(t, err)
	require.Equal(t, "/v2024-09-01/data/query/production", gotPath)
	require.Equal(t, `*[slug.current == $slug][0]`, gotQuery)
	require.Equal(t, `"toscana"`, gotSlug)
	require.Equal(t, "Bearer secret", gotAuth)
	require.Equal(t, "Toscana", out.Name)
}

func TestFetch_NullResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	c := NewClient(Config{ProjectID: "abc", Dataset: "production"}, WithBaseURL(srv.URL))
	var out map[string]any
	err := c.Fetch(context.Background(), "*[0]", nil, &out)
	require.True(t, errors.Is(err, ErrNoResult))
}

func TestFetch_QueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"expected ']'","type":"queryParseError"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{ProjectID: "abc", Dataset: "production"}, WithBaseURL(srv.URL))
	var out []any
	err := c.Fetch(context.Background(), "*[", nil, &out)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "queryParseError"))
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{ProjectID: "abc", Dataset: "production"}, WithBaseURL(srv.URL))
	var out []any
	require.Error(t, c.Fetch(context.Background(), "*", nil, &out))
}
