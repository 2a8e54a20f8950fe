package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is a request received by a FakeBlogAPI.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        map[string]any
}

// FakeBlogAPI is an in-memory blog REST API for tests. Blogs are stored as
// decoded JSON objects and get numeric ids on creation.
type FakeBlogAPI struct {
	*httptest.Server

	mu       sync.Mutex
	blogs    []map[string]any
	nextID   int
	requests []RecordedRequest
	// fail maps "METHOD /path" to a status code returned instead of the
	// normal response.
	fail map[string]int
	// hold, when set, delays every response until it is closed.
	hold chan struct{}
}

func TestBlogAPI(t *testing.T, blogs ...map[string]any) *FakeBlogAPI {
	t.Helper()

	api := &FakeBlogAPI{
		blogs:  blogs,
		nextID: len(blogs) + 1,
		fail:   make(map[string]int),
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))

	t.Cleanup(api.Close)

	return api
}

// FailWith makes requests matching method and path answer with status. A
// zero status restores the normal response.
func (api *FakeBlogAPI) FailWith(method, path string, status int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if status == 0 {
		delete(api.fail, method+" "+path)
		return
	}
	api.fail[method+" "+path] = status
}

// Hold delays responses until the returned function is called.
func (api *FakeBlogAPI) Hold() func() {
	api.mu.Lock()
	defer api.mu.Unlock()

	ch := make(chan struct{})
	api.hold = ch

	var once sync.Once
	return func() {
		once.Do(func() {
			api.mu.Lock()
			api.hold = nil
			api.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of the requests received so far.
func (api *FakeBlogAPI) Requests() []RecordedRequest {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]RecordedRequest(nil), api.requests...)
}

// Count returns how many requests matched method and path.
func (api *FakeBlogAPI) Count(method, path string) int {
	n := 0
	for _, r := range api.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (api *FakeBlogAPI) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil && r.Method == http.MethodPost {
		json.NewDecoder(r.Body).Decode(&rec.Body)
	}

	api.mu.Lock()
	api.requests = append(api.requests, rec)
	status, failing := api.fail[r.Method+" "+r.URL.Path]
	hold := api.hold
	api.mu.Unlock()

	if hold != nil {
		<-hold
	}

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/blogs":
		api.mu.Lock()
		blogs := append([]map[string]any{}, api.blogs...)
		api.mu.Unlock()
		writeFakeJSON(w, http.StatusOK, blogs)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/blogs/"):
		id := strings.TrimPrefix(r.URL.Path, "/blogs/")
		api.mu.Lock()
		defer api.mu.Unlock()
		for _, b := range api.blogs {
			if fakeIDString(b["id"]) == id {
				writeFakeJSON(w, http.StatusOK, b)
				return
			}
		}
		writeFakeJSON(w, http.StatusNotFound, map[string]any{})

	case r.Method == http.MethodPost && r.URL.Path == "/blogs":
		if rec.Body == nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		api.mu.Lock()
		blog := make(map[string]any, len(rec.Body)+1)
		for k, v := range rec.Body {
			blog[k] = v
		}
		blog["id"] = api.nextID
		api.nextID++
		api.blogs = append(api.blogs, blog)
		api.mu.Unlock()
		writeFakeJSON(w, http.StatusCreated, blog)

	default:
		http.NotFound(w, r)
	}
}

func fakeIDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

func writeFakeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
