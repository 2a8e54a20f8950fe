package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/blogist/internal/blogservice"
	"github.com/sushihentaime/blogist/internal/common"
	"github.com/sushihentaime/blogist/internal/shell"
	"github.com/sushihentaime/blogist/internal/view"
)

// homeHandler renders the whole page. A page load retries failed fetches for
// the list and the selected blog.
func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	sess := app.getSessionContext(r)
	mode := sess.Mode()
	selected := sess.SelectedID()

	app.blogService.RetryFailed(selected)

	list := app.blogService.ListBlogs(r.Context())
	detail := app.blogService.GetBlog(r.Context(), selected)

	buf, err := app.renderer.Page(view.NewPage(app.config.SiteTitle, mode, list, detail))
	app.writeHTML(w, r, http.StatusOK, buf, err)
}

// listFragmentHandler waits for the collection fetch to settle and renders
// the list pane. If the wait times out the loading pane is sent again and
// the browser polls once more.
func (app *application) listFragmentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), app.config.Cache.PollTimeout)
	defer cancel()

	e := app.blogService.WaitBlogs(ctx)
	selected := app.getSessionContext(r).SelectedID()

	buf, err := app.renderer.List(view.NewListView(e, selected))
	app.writeHTML(w, r, http.StatusOK, buf, err)
}

// detailFragmentHandler renders the detail pane for the id query parameter.
// Without an id it renders the selection prompt.
func (app *application) detailFragmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readID(r.URL.Query())
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.config.Cache.PollTimeout)
	defer cancel()

	e := app.blogService.WaitBlog(ctx, id)

	buf, err := app.renderer.Detail(view.NewDetailView(id, e))
	app.writeHTML(w, r, http.StatusOK, buf, err)
}

func (app *application) selectBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input idInput

	err := app.parseForm(w, r, &input)
	if err != nil {
		app.logger.Warn("unreadable select form", slog.String("error", err.Error()))
		app.redirectHome(w, r)
		return
	}

	app.getSessionContext(r).Do(func(s *shell.Shell) {
		s.SelectBlog(input.ID)
	})

	app.redirectHome(w, r)
}

func (app *application) newBlogHandler(w http.ResponseWriter, r *http.Request) {
	app.getSessionContext(r).Do(func(s *shell.Shell) {
		s.ClickCreate()
	})

	app.redirectHome(w, r)
}

func (app *application) backHandler(w http.ResponseWriter, r *http.Request) {
	app.getSessionContext(r).Do(func(s *shell.Shell) {
		s.Back()
	})

	app.redirectHome(w, r)
}

// createBlogHandler submits the create form. Every outcome redirects to the
// page, which shows either the list or the form with its error.
func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var form blogservice.CreateBlogForm

	sess := app.getSessionContext(r)

	// Parse the request body
	err := app.parseForm(w, r, &form)
	if err != nil {
		app.logger.Warn("unreadable create form", slog.String("error", err.Error()))
		sess.Do(func(s *shell.Shell) {
			s.RejectForm(blogservice.MsgInvalidForm)
		})
		app.redirectHome(w, r)
		return
	}

	var (
		ticket uint64
		ok     bool
	)
	sess.Do(func(s *shell.Shell) {
		ticket, ok = s.BeginSubmit(form)
	})
	if !ok {
		app.redirectHome(w, r)
		return
	}

	// The request outlives a browser that navigates away mid-submit.
	_, err = app.blogService.CreateBlog(context.WithoutCancel(r.Context()), &form)
	if err != nil {
		message := blogservice.MsgCreateFailed

		var validationErr common.ValidationError
		switch {
		case errors.As(err, &validationErr) && (validationErr.Has("title") || validationErr.Has("content")):
			message = blogservice.MsgRequiredFields
		default:
			app.logError(r, err)
		}

		sess.Do(func(s *shell.Shell) {
			s.SubmitFailed(ticket, message)
		})
		app.redirectHome(w, r)
		return
	}

	app.logger.Info("blog created", slog.String("session", sess.ID))

	sess.Do(func(s *shell.Shell) {
		s.SubmitSucceeded(ticket)
	})

	app.redirectHome(w, r)
}
