// Package pipeline runs a request through an ordered list of stages before
// dispatching it to its handler, and turns every failure into a response.
//
// A route is built from a Handler plus the stages that guard it. Stages run in
// the order given; the first one to return an error ends the request and the
// handler is never called. Handlers return a Result or an error and never write
// to the ResponseWriter themselves, so Fail is the only place an error becomes
// an HTTP response.
package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/apperror"
	"github.com/abgdnv/productcatalog/internal/platform/web"
)

// Stage inspects a request before dispatch. It returns the request to pass on,
// possibly with an enriched context, or an error that ends the request.
type Stage func(r *http.Request) (*http.Request, error)

// Handler produces the successful outcome of a request.
type Handler func(r *http.Request) (*Result, error)

// Result is a successful response.
type Result struct {
	Status int
	Body   any
}

// OK returns a 200 Result.
func OK(body any) *Result {
	return &Result{Status: http.StatusOK, Body: body}
}

// Created returns a 201 Result.
func Created(body any) *Result {
	return &Result{Status: http.StatusCreated, Body: body}
}

// Pipeline builds route handlers that share error normalization.
type Pipeline struct {
	logger *slog.Logger
	// debug adds the error trace to Internal responses.
	debug bool
}

// New creates a Pipeline. With debug set, 500 responses carry a stack trace.
func New(logger *slog.Logger, debug bool) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
		debug:  debug,
	}
}

// Handle returns an http.Handler that runs the stages in order and then h.
func (p *Pipeline) Handle(h Handler, stages ...Stage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := run(r, h, stages)
		if err != nil {
			p.Fail(w, r, err)
			return
		}
		web.RespondJSON(w, p.logger, res.Status, res.Body)
	})
}

// run executes the stages and the handler, converting a panic into an Internal error.
func run(r *http.Request, h Handler, stages []Stage) (res *Result, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			res, err = nil, apperror.FromPanic(rvr)
		}
	}()

	for _, stage := range stages {
		next, err := stage(r)
		if err != nil {
			return nil, err
		}
		r = next
	}
	res, err = h(r)
	if err == nil && res == nil {
		err = fmt.Errorf("handler returned neither a result nor an error")
	}
	return res, err
}

// Fail writes err as a failure envelope. Untyped errors are reported as a
// generic 500 with no internal details.
func (p *Pipeline) Fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)

	body := web.Envelope{
		Success: false,
		Error:   appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Kind == apperror.KindInternal {
		p.logger.ErrorContext(r.Context(), "Request failed", "error", appErr.Cause, "path", r.URL.Path)
		if p.debug {
			body.Stack = appErr.Trace()
		}
	} else {
		p.logger.WarnContext(r.Context(), "Request rejected",
			"kind", appErr.Kind.String(),
			"error", appErr.Message,
			"path", r.URL.Path,
		)
	}
	web.RespondJSON(w, p.logger, appErr.Status(), body)
}

// NotFound handles requests that matched no route.
func (p *Pipeline) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.Fail(w, r, apperror.NotFound("Route %s not found", r.URL.RequestURI()))
	})
}
