package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL: baseURL,
		APIKey:  "test-api-key",
		Timeout: 2 * time.Second,
	}, instrument.NewNoop())
}

func TestListGroupEmails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("X-Redmine-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/groups/7.json":
			assert.Equal(t, "users", r.URL.Query().Get("include"))
			w.Write([]byte(`{"group":{"id":7,"name":"verified","users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"},{"id":3,"name":"NoMail"}]}}`))
		case "/users/1.json":
			w.Write([]byte(`{"user":{"id":1,"mail":"alice@example.com"}}`))
		case "/users/2.json":
			w.Write([]byte(`{"user":{"id":2,"mail":"bob@example.com"}}`))
		case "/users/3.json":
			w.Write([]byte(`{"user":{"id":3}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	emails, err := newTestClient(srv.URL).ListGroupEmails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, emails)
}

func TestListGroupEmailsEmptyGroup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"group":{"id":7,"name":"verified","users":[]}}`))
	}))
	defer srv.Close()

	emails, err := newTestClient(srv.URL).ListGroupEmails(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestListGroupEmailsGroupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ListGroupEmails(context.Background(), 7)
	assert.Error(t, err)
}

func TestListGroupEmailsRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"group":{"id":7,"name":"verified","users":[]}}`))
	}))
	defer srv.Close()

	emails, err := newTestClient(srv.URL).ListGroupEmails(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, emails)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
