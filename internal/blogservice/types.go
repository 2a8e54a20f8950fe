package blogservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sushihentaime/blogist/internal/common"
)

// ID is a server-assigned blog identifier. The API may send it as a JSON
// string or a JSON number; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("blog id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Blog struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    []string `json:"category"`
	CoverImage  string   `json:"coverImage"`
	Content     string   `json:"content"`
	// Date is an ISO-8601 timestamp, kept as sent by the API.
	Date string `json:"date"`
}

// CreateBlogInput is the body of a create request. Category is never nil so
// that it encodes as a JSON array.
type CreateBlogInput struct {
	Title       string   `json:"title"`
	Category    []string `json:"category"`
	Description string   `json:"description"`
	CoverImage  string   `json:"coverImage"`
	Content     string   `json:"content"`
	Date        string   `json:"date"`
}

// CreateBlogForm holds the create form fields as the user typed them.
type CreateBlogForm struct {
	Title       string `schema:"title" validate:"required"`
	Category    string `schema:"category"`
	Description string `schema:"description"`
	CoverImage  string `schema:"coverImage"`
	Content     string `schema:"content" validate:"required"`
}

type BlogModel struct {
	client  *http.Client
	baseURL string
}

type BlogService struct {
	m   *BlogModel
	c   *common.Cache
	now func() time.Time
}

// NetworkError is returned for any failed API call: a transport failure, a
// non-2xx status or an unreadable body.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	default:
		return e.Op
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Logger is the subset of *slog.Logger used by the API transport.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

var _ Logger = (*slog.Logger)(nil)
