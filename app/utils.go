package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/sushihentaime/blogist/internal/blogservice"
)

type envelope map[string]any

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

// writeHTML sends a rendered template, or a server error if rendering failed.
func (app *application) writeHTML(w http.ResponseWriter, r *http.Request, status int, buf *bytes.Buffer, err error) {
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirectHome answers a form post with 303 See Other to the page.
func (app *application) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) parseForm(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	err := r.ParseForm()
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return errors.New("request body contains a badly-formed form")
	}

	err = formDecoder.Decode(dst, r.PostForm)
	if err != nil {
		return fmt.Errorf("request body contains invalid form values: %w", err)
	}

	return nil
}

type idInput struct {
	ID blogservice.ID `schema:"id"`
}

// readID decodes the blog id from a query string or form body. Ids travel as
// values rather than path segments because string ids may contain "/".
func (app *application) readID(values url.Values) (blogservice.ID, error) {
	var input idInput

	err := formDecoder.Decode(&input, values)
	if err != nil {
		return "", fmt.Errorf("invalid id parameter: %w", err)
	}

	return input.ID, nil
}
