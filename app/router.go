package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// page
	router.HandlerFunc(http.MethodGet, "/", app.loadSession(app.homeHandler))
	router.HandlerFunc(http.MethodGet, "/fragments/list", app.loadSession(app.listFragmentHandler))
	router.HandlerFunc(http.MethodGet, "/fragments/detail", app.loadSession(app.detailFragmentHandler))

	// shell transitions
	router.HandlerFunc(http.MethodPost, "/select", app.loadSession(app.selectBlogHandler))
	router.HandlerFunc(http.MethodPost, "/new", app.loadSession(app.newBlogHandler))
	router.HandlerFunc(http.MethodPost, "/back", app.loadSession(app.backHandler))
	router.HandlerFunc(http.MethodPost, "/blogs", app.loadSession(app.createBlogHandler))

	return app.recoverPanic(app.logRequest(app.rateLimit(router)))
}
