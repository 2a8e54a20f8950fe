package blogservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// loggingRoundTripper logs every outbound call to the blog API.
type loggingRoundTripper struct {
	inner  http.RoundTripper
	logger Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	res, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		l.logger.Error("blog api request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.Debug("blog api request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", duration))

	return res, nil
}

// NewHTTPClient returns the client used to reach the blog API. A zero
// timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration, logger Logger) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport, logger: logger},
	}
}

func newBlogModel(client *http.Client, baseURL string) *BlogModel {
	if client == nil {
		client = http.DefaultClient
	}
	return &BlogModel{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// list fetches every blog from the collection endpoint.
func (m *BlogModel) list(ctx context.Context) ([]Blog, error) {
	const op = "failed to fetch blogs"

	var blogs []Blog
	err := m.do(ctx, op, http.MethodGet, "/blogs", nil, &blogs)
	if err != nil {
		return nil, err
	}

	return blogs, nil
}

// get fetches a single blog. A JSON null body yields a nil blog.
func (m *BlogModel) get(ctx context.Context, id ID) (*Blog, error) {
	op := fmt.Sprintf("failed to fetch blog with id %s", id)

	var blog *Blog
	err := m.do(ctx, op, http.MethodGet, "/blogs/"+url.PathEscape(id.String()), nil, &blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

func (m *BlogModel) insert(ctx context.Context, input *CreateBlogInput) (*Blog, error) {
	const op = "failed to create blog"

	body, err := json.Marshal(input)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	var blog Blog
	err = m.do(ctx, op, http.MethodPost, "/blogs", body, &blog)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

func (m *BlogModel) do(ctx context.Context, op, method, path string, body []byte, dst any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := m.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, res.Body)
		return &NetworkError{Op: op, Status: res.StatusCode}
	}

	err = json.NewDecoder(res.Body).Decode(dst)
	if err != nil {
		return &NetworkError{Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
