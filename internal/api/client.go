// Package api is the client of the remote marketplace API.
//
// Every call resolves: transport faults, cancelled contexts and bodies that are
// not JSON are logged and turned into an empty sequence (Get) or an absent
// value (Post, Put). Non-2xx responses that carry a JSON body are returned to
// the caller unchanged, since the API reports business failures that way.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

// Logger receives one entry per swallowed fault.
type Logger interface {
	Errorf(format string, args ...interface{})
}

type Client struct {
	baseURL string
	http    *http.Client
	log     Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log.New("api"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var emptySequence = json.RawMessage("[]")

// Get fetches path and returns the raw JSON body, or an empty sequence on fault.
func (c *Client) Get(ctx context.Context, path string) json.RawMessage {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.log.Errorf("GET %s: %v", path, err)
		return emptySequence
	}
	return body
}

// Post sends data as JSON and returns the raw JSON body, or nil on fault.
func (c *Client) Post(ctx context.Context, path string, data any) json.RawMessage {
	body, err := c.do(ctx, http.MethodPost, path, data)
	if err != nil {
		c.log.Errorf("POST %s: %v", path, err)
		return nil
	}
	return body
}

// Put sends data as JSON and returns the raw JSON body, or nil on fault.
func (c *Client) Put(ctx context.Context, path string, data any) json.RawMessage {
	body, err := c.do(ctx, http.MethodPut, path, data)
	if err != nil {
		c.log.Errorf("PUT %s: %v", path, err)
		return nil
	}
	return body
}

func (c *Client) do(ctx context.Context, method, path string, data any) (json.RawMessage, error) {
	var reqBody io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("status %d: response is not JSON", resp.StatusCode)
	}
	return b, nil
}
