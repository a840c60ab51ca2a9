// Package gateway is the client for the hosted backend: password auth plus
// table-style CRUD over the "projects" and "tasks" collections. Every call is
// request/response; there is no streaming, no retries, and no partial-success
// handling — one call maps to one table operation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the backend's REST surface. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	// accessToken, when set, scopes table operations to the signed-in user.
	accessToken string
}

// New returns a client for the backend at baseURL authenticated with the
// project's anon key. baseURL is the root (no trailing /rest/v1).
func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetAccessToken attaches the session's bearer token to subsequent requests.
func (c *Client) SetAccessToken(tok string) { c.accessToken = tok }

// Eq is a column equality filter (rendered as col=eq.value).
type Eq struct {
	Column string
	Value  string
}

// APIError is a non-2xx response from the backend. Message is the backend's
// own message string and is shown verbatim on the login/signup surface.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("gateway: request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	tok := c.accessToken
	if tok == "" {
		tok = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error body. The auth
// and table endpoints use different field names.
func errorMessage(raw []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, s := range []string{payload.Message, payload.Msg, payload.ErrorDescription, payload.Error} {
			if strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
