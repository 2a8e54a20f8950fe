// Package shell holds the page state of one browser session: which pane the
// user is looking at and the create form in progress.
package shell

import (
	"github.com/sushihentaime/blogist/internal/blogservice"
)

// Mode is one of Idle, Viewing or Creating. Being a single value, a session
// can never be viewing a blog and creating one at the same time.
type Mode interface {
	mode()
	String() string
}

// Idle shows the list with nothing selected.
type Idle struct{}

// Viewing shows the detail pane for ID.
type Viewing struct {
	ID blogservice.ID
}

// Creating shows the create form. Form and Error survive a failed submission
// so the user can retry. Pending is set while the create request runs.
type Creating struct {
	Form    blogservice.CreateBlogForm
	Error   string
	Pending bool

	submission uint64
}

func (Idle) mode()     {}
func (Viewing) mode()  {}
func (Creating) mode() {}

func (Idle) String() string      { return "idle" }
func (v Viewing) String() string { return "viewing:" + v.ID.String() }
func (Creating) String() string  { return "creating" }

type Shell struct {
	mode        Mode
	submissions uint64
}

func New() *Shell {
	return &Shell{mode: Idle{}}
}

func (s *Shell) Mode() Mode {
	return s.mode
}

// SelectedID returns the blog being viewed, or "".
func (s *Shell) SelectedID() blogservice.ID {
	if v, ok := s.mode.(Viewing); ok {
		return v.ID
	}
	return ""
}

func (s *Shell) IsCreating() bool {
	_, ok := s.mode.(Creating)
	return ok
}

// DetailOpen reports whether narrow layouts show the detail pane.
func (s *Shell) DetailOpen() bool {
	_, idle := s.mode.(Idle)
	return !idle
}

// SelectBlog views id from any mode. An empty id is ignored.
func (s *Shell) SelectBlog(id blogservice.ID) {
	if id == "" {
		return
	}
	s.mode = Viewing{ID: id}
}

// ClickCreate opens an empty create form. It does nothing while already
// creating, so a draft is never lost.
func (s *Shell) ClickCreate() {
	if s.IsCreating() {
		return
	}
	s.mode = Creating{}
}

// CreateSuccess closes the create form. It only applies while creating.
func (s *Shell) CreateSuccess() {
	if s.IsCreating() {
		s.mode = Idle{}
	}
}

// Back returns to Idle.
func (s *Shell) Back() {
	s.mode = Idle{}
}

// BeginSubmit records form as the draft and marks the create request as
// pending. It returns a ticket for SubmitFailed, or false when not creating
// or when a submission is already pending.
func (s *Shell) BeginSubmit(form blogservice.CreateBlogForm) (uint64, bool) {
	c, ok := s.mode.(Creating)
	if !ok || c.Pending {
		return 0, false
	}
	s.submissions++
	s.mode = Creating{Form: form, Pending: true, submission: s.submissions}
	return s.submissions, true
}

// SubmitFailed keeps the draft of submission ticket and shows message. It is
// ignored if the user has left that form in the meantime.
func (s *Shell) SubmitFailed(ticket uint64, message string) {
	c, ok := s.mode.(Creating)
	if !ok || !c.Pending || c.submission != ticket {
		return
	}
	s.mode = Creating{Form: c.Form, Error: message}
}

// RejectForm shows message on the open form without submitting it. It does
// nothing unless a form is open and idle.
func (s *Shell) RejectForm(message string) {
	c, ok := s.mode.(Creating)
	if !ok || c.Pending {
		return
	}
	s.mode = Creating{Form: c.Form, Error: message}
}

// SubmitSucceeded closes the form of submission ticket. A form opened after
// that submission is left alone.
func (s *Shell) SubmitSucceeded(ticket uint64) {
	if c, ok := s.mode.(Creating); ok && c.Pending && c.submission == ticket {
		s.CreateSuccess()
	}
}
