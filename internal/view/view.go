// Package view turns cache entries and page state into HTML.
package view

import (
	"time"

	"github.com/sushihentaime/blogist/internal/blogservice"
	"github.com/sushihentaime/blogist/internal/common"
	"github.com/sushihentaime/blogist/internal/shell"
)

// ListPlaceholders is the number of skeleton cards shown while loading.
const ListPlaceholders = 5

const (
	StateLoading  = "loading"
	StateError    = "error"
	StateLoaded   = "loaded"
	StatePrompt   = "prompt"
	StateNotFound = "notfound"
)

type BlogCard struct {
	ID          blogservice.ID
	Title       string
	Description string
	Categories  []string
	Selected    bool
}

type ListView struct {
	State        string
	Placeholders []struct{}
	Blogs        []BlogCard
}

// NewListView maps the collection entry to a list state. Idle and loading
// entries both render as loading.
func NewListView(e common.Entry, selected blogservice.ID) ListView {
	switch e.Status {
	case common.StatusError:
		return ListView{State: StateError}
	case common.StatusSuccess:
		blogs, _ := e.Data.([]blogservice.Blog)
		cards := make([]BlogCard, 0, len(blogs))
		for _, b := range blogs {
			cards = append(cards, BlogCard{
				ID:          b.ID,
				Title:       b.Title,
				Description: b.Description,
				Categories:  b.Category,
				Selected:    selected != "" && b.ID == selected,
			})
		}
		return ListView{State: StateLoaded, Blogs: cards}
	default:
		return ListView{State: StateLoading, Placeholders: make([]struct{}, ListPlaceholders)}
	}
}

type DetailView struct {
	State string
	ID    blogservice.ID
	Blog  *blogservice.Blog
	// Date is the blog date in long form, e.g. "January 15, 2024".
	Date string
}

// NewDetailView maps the entry for id to a detail state. Without an id the
// view prompts for a selection.
func NewDetailView(id blogservice.ID, e common.Entry) DetailView {
	if id == "" {
		return DetailView{State: StatePrompt}
	}

	switch e.Status {
	case common.StatusError:
		return DetailView{State: StateError, ID: id}
	case common.StatusSuccess:
		blog, _ := e.Data.(*blogservice.Blog)
		if blog == nil {
			return DetailView{State: StateNotFound, ID: id}
		}
		return DetailView{State: StateLoaded, ID: id, Blog: blog, Date: FormatDate(blog.Date)}
	default:
		return DetailView{State: StateLoading, ID: id}
	}
}

type CreateView struct {
	Form    blogservice.CreateBlogForm
	Error   string
	Pending bool
}

func NewCreateView(c shell.Creating) CreateView {
	return CreateView{Form: c.Form, Error: c.Error, Pending: c.Pending}
}

type Page struct {
	Title      string
	DetailOpen bool
	IsCreating bool
	List       ListView
	Detail     DetailView
	Create     CreateView
}

// NewPage assembles the full page for mode. detail is ignored unless the
// mode is Viewing.
func NewPage(title string, mode shell.Mode, list common.Entry, detail common.Entry) Page {
	p := Page{Title: title}

	var selected blogservice.ID
	switch m := mode.(type) {
	case shell.Viewing:
		selected = m.ID
		p.DetailOpen = true
		p.Detail = NewDetailView(m.ID, detail)
	case shell.Creating:
		p.DetailOpen = true
		p.IsCreating = true
		p.Create = NewCreateView(m)
		p.Detail = NewDetailView("", common.Entry{})
	default:
		p.Detail = NewDetailView("", common.Entry{})
	}

	p.List = NewListView(list, selected)

	return p
}

// Parsing accepts fractional seconds after the seconds field even when a
// layout does not spell them out.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDate renders an ISO-8601 timestamp as "January 2, 2006" in the
// timestamp's own offset. Unparseable input renders as "Invalid Date".
func FormatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return "Invalid Date"
}
