package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// maxErrorBody bounds how much of a failed response is read for the error envelope.
const maxErrorBody = 64 << 10

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(name string, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	// ResolveReference drops the last path segment unless the base ends in "/".
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient}
}

// Do sends in (when non-nil) as JSON and decodes a 2xx body into out (when
// non-nil). Non-2xx responses come back as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(method, path, resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%s: decode %s %s: %w", c.Name, method, path, err)
	}
	return nil
}

// Raw performs the request and hands back the response untouched. The caller
// closes the body. Used by health probes.
func (c *Client) Raw(ctx context.Context, method, path string) (*http.Response, error) {
	return c.send(ctx, method, path, nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	if !cleanPath(path) {
		return nil, &APIError{Status: http.StatusNotFound, Method: method, Path: path, Message: http.StatusText(http.StatusNotFound)}
	}
	// path is already escaped (see pathf), so parse rather than assign Path.
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid path %q: %w", c.Name, path, err)
	}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	u := c.BaseURL.ResolveReference(rel)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: encode %s %s: %w", c.Name, method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Ensure correlation id propagated downstream
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}
	if token := middleware.GetBearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.Name, err)
	}
	return resp, nil
}

// cleanPath rejects paths that ResolveReference would rewrite. An id of ".."
// would otherwise climb to a different endpoint.
func cleanPath(path string) bool {
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
