// Package directory resolves group membership from a Redmine-compatible
// directory service over its REST API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

const headerAPIKey = "X-Redmine-API-Key"

const defaultTimeout = 10 * time.Second

// Config holds connection settings for the directory service.
type Config struct {
	// BaseURL is the root URL of the directory service, without a trailing slash.
	BaseURL string
	// APIKey authenticates requests via the X-Redmine-API-Key header.
	APIKey string
	// Timeout bounds each HTTP request. Zero means a 10s default.
	Timeout time.Duration
}

// Client calls the directory REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	ins        instrument.Instrumentation
}

func NewClient(cfg Config, ins instrument.Instrumentation) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		ins:        ins,
	}
}

type groupMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type groupResponse struct {
	Group struct {
		ID    int64         `json:"id"`
		Name  string        `json:"name"`
		Users []groupMember `json:"users"`
	} `json:"group"`
}

type userResponse struct {
	User struct {
		ID   int64  `json:"id"`
		Mail string `json:"mail"`
	} `json:"user"`
}

// ListGroupEmails returns the email addresses of every member of groupID.
//
// Membership is resolved in two steps: the group endpoint lists member IDs,
// then each user record is fetched for its mail field. Users without a mail
// field are skipped.
func (c *Client) ListGroupEmails(ctx context.Context, groupID int64) ([]string, error) {
	ctx, span := c.ins.Tracer("verification.outbound.directory").Start(ctx, "ListGroupEmails")
	defer span.End()

	var group groupResponse
	path := "/groups/" + strconv.FormatInt(groupID, 10) + ".json?include=users"
	if err := c.getJSON(ctx, path, &group); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	emails := make([]string, 0, len(group.Group.Users))
	for _, member := range group.Group.Users {
		var user userResponse
		path := "/users/" + strconv.FormatInt(member.ID, 10) + ".json"
		if err := c.getJSON(ctx, path, &user); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		emails = append(emails, user.User.Mail)
	}

	return lo.Uniq(lo.Compact(emails)), nil
}

// getJSON fetches baseURL+path and decodes the JSON body into dst. Transient
// failures (network errors and 5xx responses) are retried with a capped
// fibonacci backoff.
func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxRetries(3, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(headerAPIKey, c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
			return retry.RetryableError(newUpstreamError(resp.StatusCode, path))
		}
		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
			return newUpstreamError(resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return goerror.NewUpstream(fmt.Errorf("decode directory response %s: %w", path, err))
		}

		return nil
	})
}

func newUpstreamError(status int, path string) error {
	return goerror.NewUpstream(fmt.Errorf("directory request %s returned status %d", path, status))
}
