package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/httputil"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

// Client talks to a running sprint-server.
type Client struct {
	baseURL string
	http    httputil.HTTPClient
}

// NewClient returns a Client for baseURL. A nil c uses http.DefaultClient.
func NewClient(baseURL string, c httputil.HTTPClient) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: c}
}

func (c *Client) sessionURL(id, suffix string) string {
	return c.baseURL + "/api/sessions/" + url.PathEscape(id) + suffix
}

// CreateSession starts a session on the server.
func (c *Client) CreateSession(ctx context.Context, label string) (db.SessionInfo, error) {
	var info db.SessionInfo
	err := httputil.DoJSON(ctx, c.http, http.MethodPost, c.baseURL+"/api/sessions",
		createSessionRequest{Label: label}, &info)
	return info, err
}

// PostFrame submits one frame and returns the server's analysis.
func (c *Client) PostFrame(ctx context.Context, id string, f pose.Frame) (sprint.Analysis, error) {
	var a sprint.Analysis
	err := httputil.DoJSON(ctx, c.http, http.MethodPost, c.sessionURL(id, "/frames"), f, &a)
	return a, err
}

// Summary fetches the aggregate of a session's stored metrics.
func (c *Client) Summary(ctx context.Context, id string) (session.Summary, error) {
	var s session.Summary
	err := httputil.DoJSON(ctx, c.http, http.MethodGet, c.sessionURL(id, "/summary"), nil, &s)
	return s, err
}
