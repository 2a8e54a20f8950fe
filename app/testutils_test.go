package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogist/internal/common"
)

type testServer struct {
	*httptest.Server
}

// newTestServer returns a server whose client keeps cookies and does not
// follow redirects.
func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := ts.Client()
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestApplication(t *testing.T, blogs ...map[string]any) (*application, *common.FakeBlogAPI) {
	t.Helper()

	api := common.TestBlogAPI(t, blogs...)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	cfg.API.URL = api.URL
	cfg.Cache.PollTimeout = 5 * time.Second
	cfg.Limiter.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(cfg, logger)
	require.NoError(t, err)

	t.Cleanup(app.cache.Drain)

	return app, api
}

func (ts *testServer) get(t *testing.T, path string) (int, string) {
	t.Helper()

	res, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, string(body)
}

func (ts *testServer) post(t *testing.T, path string, form url.Values) (int, http.Header) {
	t.Helper()

	res, err := ts.Client().Post(ts.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	return res.StatusCode, res.Header
}

func helloBlog() map[string]any {
	return map[string]any{
		"id":          1,
		"title":       "Hello",
		"category":    []string{"Tech"},
		"description": "First post",
		"coverImage":  "",
		"content":     "Hello world",
		"date":        "2024-01-15T10:00:00.000Z",
	}
}
