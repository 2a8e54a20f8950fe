package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogist/internal/blogservice"
	"github.com/sushihentaime/blogist/internal/view"
)

func createForm(title, content string) url.Values {
	return url.Values{
		"title":       {title},
		"category":    {""},
		"description": {""},
		"coverImage":  {""},
		"content":     {content},
	}
}

func TestBrowseAndCreate(t *testing.T) {
	app, api := newTestApplication(t, helloBlog())
	ts := newTestServer(t, app.routes())

	// the first page load shows the list loading
	status, body := ts.get(t, "/")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, view.ListPlaceholders, strings.Count(body, `class="skeleton card-block"`))
	assert.Contains(t, body, `hx-get="/fragments/list"`)

	_, body = ts.get(t, "/fragments/list")
	assert.Equal(t, 1, strings.Count(body, `action="/select"`))
	assert.Contains(t, body, `name="id" value="1"`)
	assert.Contains(t, body, `<span class="badge">Tech</span>`)
	assert.Contains(t, body, "Hello")

	// selecting a card opens the detail pane in its loading state
	release := api.Hold()
	status, _ = ts.post(t, "/select", url.Values{"id": {"1"}})
	assert.Equal(t, http.StatusSeeOther, status)

	_, body = ts.get(t, "/")
	assert.Contains(t, body, "panes detail-open")
	assert.Contains(t, body, `hx-get="/fragments/detail?id=1"`)
	assert.Contains(t, body, "card selected")
	release()

	_, body = ts.get(t, "/fragments/detail?id=1")
	assert.Contains(t, body, "<article>")
	assert.Contains(t, body, "Hello world")
	assert.Contains(t, body, "January 15, 2024")
	assert.Equal(t, 1, api.Count(http.MethodGet, "/blogs/1"))

	// New clears the selection
	status, _ = ts.post(t, "/new", nil)
	assert.Equal(t, http.StatusSeeOther, status)

	_, body = ts.get(t, "/")
	assert.Contains(t, body, `class="card create-form"`)
	assert.NotContains(t, body, "card selected")
	assert.NotContains(t, body, "<article>")

	// submitting returns to idle and refetches the list
	status, header := ts.post(t, "/blogs", createForm("T", "C"))
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", header.Get("Location"))

	require.Equal(t, 1, api.Count(http.MethodPost, "/blogs"))
	var posted map[string]any
	for _, r := range api.Requests() {
		if r.Method == http.MethodPost {
			posted = r.Body
		}
	}
	date, ok := posted["date"].(string)
	require.True(t, ok)
	_, err := time.Parse("2006-01-02T15:04:05.000Z", date)
	assert.NoError(t, err)
	delete(posted, "date")
	assert.Equal(t, map[string]any{
		"title":       "T",
		"category":    []any{},
		"description": "",
		"coverImage":  "",
		"content":     "C",
	}, posted)

	_, body = ts.get(t, "/")
	assert.Contains(t, body, `class="panes"`)
	assert.NotContains(t, body, `class="card create-form"`)

	_, body = ts.get(t, "/fragments/list")
	assert.Contains(t, body, `name="id" value="2"`)
	assert.Equal(t, 2, api.Count(http.MethodGet, "/blogs"))
}

func TestCreateBlogValidation(t *testing.T) {
	testCases := []struct {
		name    string
		title   string
		content string
	}{
		{name: "empty title", title: "", content: "C"},
		{name: "empty content", title: "T", content: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app, api := newTestApplication(t)
			ts := newTestServer(t, app.routes())

			ts.post(t, "/new", nil)
			status, _ := ts.post(t, "/blogs", createForm(tc.title, tc.content))
			assert.Equal(t, http.StatusSeeOther, status)

			_, body := ts.get(t, "/")
			assert.Contains(t, body, blogservice.MsgRequiredFields)
			assert.Contains(t, body, `class="card create-form"`)
			assert.Equal(t, 0, api.Count(http.MethodPost, "/blogs"))
		})
	}
}

func TestCreateBlogFailureKeepsForm(t *testing.T) {
	app, api := newTestApplication(t, helloBlog())
	ts := newTestServer(t, app.routes())
	api.FailWith(http.MethodPost, "/blogs", http.StatusInternalServerError)

	ts.post(t, "/new", nil)
	status, _ := ts.post(t, "/blogs", createForm("Draft title", "Draft body"))
	assert.Equal(t, http.StatusSeeOther, status)

	_, body := ts.get(t, "/")
	assert.Contains(t, body, blogservice.MsgCreateFailed)
	assert.Contains(t, body, `value="Draft title"`)
	assert.Contains(t, body, "Draft body</textarea>")
	assert.Contains(t, body, "Create Blog</button>")
}

func TestSelectStringIDWithSlash(t *testing.T) {
	blog := helloBlog()
	blog["id"] = "2024/hello"
	app, api := newTestApplication(t, blog)
	ts := newTestServer(t, app.routes())

	_, body := ts.get(t, "/fragments/list")
	assert.Contains(t, body, `name="id" value="2024/hello"`)

	status, _ := ts.post(t, "/select", url.Values{"id": {"2024/hello"}})
	assert.Equal(t, http.StatusSeeOther, status)

	_, body = ts.get(t, "/")
	assert.Contains(t, body, "panes detail-open")
	assert.Contains(t, body, "card selected")
	assert.Contains(t, body, `hx-get="/fragments/detail?id=2024%2Fhello"`)

	status, body = ts.get(t, "/fragments/detail?id="+url.QueryEscape("2024/hello"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<article>")
	assert.Contains(t, body, "Hello world")
	assert.Equal(t, 1, api.Count(http.MethodGet, "/blogs/2024/hello"))
}

func TestSelectWithoutID(t *testing.T) {
	app, api := newTestApplication(t, helloBlog())
	ts := newTestServer(t, app.routes())

	status, _ := ts.post(t, "/select", nil)
	assert.Equal(t, http.StatusSeeOther, status)

	_, body := ts.get(t, "/")
	assert.Contains(t, body, `class="panes"`)

	_, body = ts.get(t, "/fragments/detail")
	assert.Contains(t, body, "Select a blog to view details")
	for _, r := range api.Requests() {
		assert.Equal(t, "/blogs", r.Path)
	}
}

func TestCreateBlogUnreadableForm(t *testing.T) {
	app, api := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	ts.post(t, "/new", nil)

	res, err := ts.Client().Post(ts.URL+"/blogs", "application/x-www-form-urlencoded", strings.NewReader("title=%zz&content=C"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	_, body := ts.get(t, "/")
	assert.Contains(t, body, `class="card create-form"`)
	assert.Contains(t, body, blogservice.MsgInvalidForm)
	assert.Equal(t, 0, api.Count(http.MethodPost, "/blogs"))
}

func TestCreateBlogWhileNotCreating(t *testing.T) {
	app, api := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _ := ts.post(t, "/blogs", createForm("T", "C"))
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, 0, api.Count(http.MethodPost, "/blogs"))
}

func TestCreateBlogPendingRejectsSecondSubmit(t *testing.T) {
	app, api := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	ts.post(t, "/new", nil)

	release := api.Hold()
	defer release()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := ts.Client().PostForm(ts.URL+"/blogs", createForm("T", "C"))
		if err == nil {
			res.Body.Close()
		}
	}()

	require.Eventually(t, func() bool {
		return api.Count(http.MethodPost, "/blogs") == 1
	}, 5*time.Second, 10*time.Millisecond)

	_, body := ts.get(t, "/")
	assert.Contains(t, body, "Creating...</button>")

	status, _ := ts.post(t, "/blogs", createForm("T", "C"))
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, 1, api.Count(http.MethodPost, "/blogs"))

	release()
	wg.Wait()

	_, body = ts.get(t, "/")
	assert.NotContains(t, body, `class="card create-form"`)
}

func TestFragments(t *testing.T) {
	t.Run("list error", func(t *testing.T) {
		app, api := newTestApplication(t)
		ts := newTestServer(t, app.routes())
		api.FailWith(http.MethodGet, "/blogs", http.StatusInternalServerError)

		_, body := ts.get(t, "/fragments/list")
		assert.Contains(t, body, "Error loading blogs")
	})

	t.Run("detail error", func(t *testing.T) {
		app, api := newTestApplication(t, helloBlog())
		ts := newTestServer(t, app.routes())
		api.FailWith(http.MethodGet, "/blogs/1", http.StatusInternalServerError)

		_, body := ts.get(t, "/fragments/detail?id=1")
		assert.Contains(t, body, "Error loading blog details")
	})

	t.Run("empty categories", func(t *testing.T) {
		blog := helloBlog()
		blog["category"] = []string{}
		app, _ := newTestApplication(t, blog)
		ts := newTestServer(t, app.routes())

		_, body := ts.get(t, "/fragments/list")
		assert.Contains(t, body, "Hello")
		assert.NotContains(t, body, `class="badge"`)

		_, body = ts.get(t, "/fragments/detail?id=1")
		assert.Contains(t, body, "<article>")
		assert.NotContains(t, body, `class="tag"`)
	})

	t.Run("poll timeout keeps loading", func(t *testing.T) {
		app, api := newTestApplication(t)
		app.config.Cache.PollTimeout = 50 * time.Millisecond
		ts := newTestServer(t, app.routes())

		release := api.Hold()
		defer release()

		_, body := ts.get(t, "/fragments/list")
		assert.Contains(t, body, `hx-get="/fragments/list"`)
		release()
	})
}

func TestPageRetriesFailedList(t *testing.T) {
	app, api := newTestApplication(t, helloBlog())
	ts := newTestServer(t, app.routes())

	api.FailWith(http.MethodGet, "/blogs", http.StatusServiceUnavailable)
	_, body := ts.get(t, "/fragments/list")
	assert.Contains(t, body, "Error loading blogs")

	// a refetch only happens on the next page load
	_, body = ts.get(t, "/fragments/list")
	assert.Contains(t, body, "Error loading blogs")
	assert.Equal(t, 1, api.Count(http.MethodGet, "/blogs"))

	api.FailWith(http.MethodGet, "/blogs", 0)
	ts.get(t, "/")
	_, body = ts.get(t, "/fragments/list")
	assert.Contains(t, body, "Hello")
	assert.Equal(t, 2, api.Count(http.MethodGet, "/blogs"))
}

func TestBack(t *testing.T) {
	app, _ := newTestApplication(t, helloBlog())
	ts := newTestServer(t, app.routes())

	ts.post(t, "/select", url.Values{"id": {"1"}})
	_, body := ts.get(t, "/")
	assert.Contains(t, body, `action="/back"`)

	status, _ := ts.post(t, "/back", nil)
	assert.Equal(t, http.StatusSeeOther, status)

	_, body = ts.get(t, "/")
	assert.NotContains(t, body, `action="/back"`)
	assert.Contains(t, body, `class="panes"`)
}

func TestRoutingErrors(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantError  string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantError: "resource not found"},
		{name: "wrong method", method: http.MethodGet, path: "/new", wantStatus: http.StatusMethodNotAllowed, wantError: "method not allowed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, nil)
			require.NoError(t, err)

			res, err := ts.Client().Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			var env envelope
			require.NoError(t, json.NewDecoder(res.Body).Decode(&env))

			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, tc.wantError, env["error"])
		})
	}
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	res, err := ts.Client().Get(ts.URL + "/healthcheck")
	require.NoError(t, err)
	defer res.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "available", env["status"])
	info, ok := env["system_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(app.sessions.Len()), info["sessions"])
	assert.Empty(t, res.Cookies())
}
