package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	// BaseURL is the backend origin, e.g. https://api.sangkumfund.org.
	BaseURL string

	// Timeout of zero keeps the transport default.
	Timeout time.Duration
}

// Observer is called once per request with the outcome. status is 0 when
// the request never got a response.
type Observer func(method, path string, status int, took time.Duration)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithObserver(fn Observer) Option {
	return func(c *Client) { c.observe = fn }
}

// Requester is the verb-based surface the API modules depend on.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// Client is the authenticated HTTP client for the SangKumFund backend.
// Requests are sent once: there are no retries.
type Client struct {
	// baseURL has no trailing slash.
	baseURL string

	// auth supplies the bearer token and is invalidated on 401.
	auth *AuthContext

	// hc is the http client.
	hc *http.Client

	observe Observer
}

func New(cfg Config, auth *AuthContext, opts ...Option) *Client {
	if auth == nil {
		auth = NewAuthContext(nil)
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    auth,
		hc:      &http.Client{Timeout: cfg.Timeout},
		observe: func(string, string, int, time.Duration) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Auth() *AuthContext { return c.auth }

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodDelete, path, nil, out)
}

// Upload sends r as a single multipart file part named field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("apiclient: multipart.CreateFormFile: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("apiclient: multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("apiclient: multipart close: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	if body == nil {
		return c.do(ctx, method, path, nil, "", out)
	}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: json.Marshal: %w", method, path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token := c.auth.Token(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.auth.Reject(ctx, token, method+" "+path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(method, path, resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("apiclient: %s %s: json.Unmarshal: %w", method, path, err)
	}
	return nil
}
