package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/blogist/internal/shell"
)

type contextKey string

const sessionContextKey = contextKey("session")

func (app *application) createSessionContext(r *http.Request, s *shell.Session) *http.Request {
	ctx := context.WithValue(r.Context(), sessionContextKey, s)
	return r.WithContext(ctx)
}

func (app *application) getSessionContext(r *http.Request) *shell.Session {
	s, ok := r.Context().Value(sessionContextKey).(*shell.Session)
	if !ok {
		panic("missing session in request context")
	}
	return s
}
