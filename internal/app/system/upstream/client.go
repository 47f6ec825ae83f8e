// internal/app/system/upstream/client.go

// Package upstream proxies distribution operations to the SERVER_API
// service. The distributor owns assignment and redistribution; this
// service forwards the request with the caller's identity headers and
// relays the response 1:1 (status code and body untouched).
package upstream

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Session carries the caller identity forwarded on every proxied request.
type Session struct {
	Token     string
	CompanyID string
	Role      string
}

// Client forwards requests to the upstream distributor.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a Client for the given upstream base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeouts.Long()},
		log:     logger,
	}
}

// Proxy forwards r to the upstream path and relays the upstream response
// verbatim. The method, query string, and body pass through; the caller's
// session token, company scope, and role are attached as x- headers. A
// transport failure (upstream unreachable, timeout) becomes a 500 with
// the standard error body; upstream application errors pass through with
// whatever status and body the upstream produced.
func (c *Client) Proxy(w http.ResponseWriter, r *http.Request, path string, sess Session) {
	target, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.log.Error("bad upstream path", zap.String("path", path), zap.Error(err))
		writeUnavailable(w)
		return
	}
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		c.log.Error("build upstream request failed", zap.Error(err))
		writeUnavailable(w)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set("x-session-token", sess.Token)
	req.Header.Set("x-company-id", sess.CompanyID)
	req.Header.Set("x-role", sess.Role)
	req.Header.Set("x-request-id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("upstream request failed",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Error(err))
		writeUnavailable(w)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		c.log.Warn("copy upstream response failed", zap.Error(err))
	}
}

func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprint(w, `{"error":"upstream service unavailable"}`)
}
