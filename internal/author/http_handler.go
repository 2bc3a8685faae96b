package author

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"dsfrexample/internal/forms"
	"dsfrexample/internal/httpx"
	"dsfrexample/internal/platform/render"
)

// Submission outcomes reported to the Recorder.
const (
	OutcomeCreated = "created"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Renderer renders a template by identifier.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Recorder counts form submissions by outcome.
type Recorder interface {
	RecordSubmission(outcome string)
}

type HTTPHandler struct {
	service  *Service
	renderer Renderer
	formset  forms.Config
	rootDir  string
	recorder Recorder
}

type Option func(*HTTPHandler)

// WithRootDir sets the breadcrumb root of rendered pages.
func WithRootDir(dir string) Option {
	return func(h *HTTPHandler) { h.rootDir = dir }
}

// WithRecorder reports submission outcomes to rec.
func WithRecorder(rec Recorder) Option {
	return func(h *HTTPHandler) { h.recorder = rec }
}

func NewHTTPHandler(service *Service, renderer Renderer, formset forms.Config, opts ...Option) *HTTPHandler {
	h := &HTTPHandler{service: service, renderer: renderer, formset: formset}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// createRequest is the state of one request to the create view. It is built
// once per request and never mutated.
type createRequest struct {
	// instance is the author being edited; nil when creating.
	instance  *Author
	data      url.Values
	csrfToken string
}

func newCreateRequest(r *http.Request, instance *Author, data url.Values) createRequest {
	return createRequest{
		instance:  instance,
		data:      data,
		csrfToken: httpx.CSRFTokenFrom(r),
	}
}

func (req createRequest) existingBooks() []Book {
	if req.instance == nil {
		return nil
	}
	return req.instance.Books
}

// Show handles GET /forms/
func (h *HTTPHandler) Show(w http.ResponseWriter, r *http.Request) {
	req := newCreateRequest(r, nil, nil)
	fs := NewBookFormset(h.formset, req.existingBooks())
	h.render(w, r, h.page(req, nil, fs))
}

// Submit handles POST /forms/
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.Error(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		httpx.Error(w, r, http.StatusBadRequest, "Invalid form body")
		return
	}
	req := newCreateRequest(r, nil, r.PostForm)

	data, authorErrs := ValidateAuthor(req.data)
	fs := BindBookFormset(h.formset, req.existingBooks(), req.data)
	books, _ := ValidateBooks(fs)

	if len(authorErrs) > 0 || !fs.Valid() {
		h.record(OutcomeInvalid)
		slog.Debug("author form invalid",
			"request_id", httpx.RequestIDFrom(r),
			"field_errors", authorErrs.Count(),
			"formset_errors", len(fs.NonFormErrors),
		)
		h.render(w, r, h.page(req, authorErrs, fs))
		return
	}

	a, err := h.service.Save(r.Context(), req.instance, data, books)
	if err != nil {
		h.record(OutcomeError)
		slog.Error("save author failed", "request_id", httpx.RequestIDFrom(r), "error", err)
		httpx.Error(w, r, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.record(OutcomeCreated)
	slog.Info("author saved", "request_id", httpx.RequestIDFrom(r), "author_id", a.ID, "books", len(a.Books))
	httpx.Text(w, http.StatusOK, "Success")
}

func (h *HTTPHandler) page(req createRequest, errs forms.FieldErrors, fs *forms.Formset) FormPage {
	p := newFormPage(render.NewPage(PageTitle, h.rootDir), req.data, errs, fs)
	p.CSRFFieldName = httpx.CSRFFieldName
	p.CSRFToken = req.csrfToken
	return p
}

func (h *HTTPHandler) render(w http.ResponseWriter, r *http.Request, page FormPage) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, render.ExampleForm, page); err != nil {
		slog.Error("render failed", "request_id", httpx.RequestIDFrom(r), "template", render.ExampleForm, "error", err)
		httpx.Error(w, r, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	httpx.HTML(w, http.StatusOK, buf.Bytes())
}

func (h *HTTPHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordSubmission(outcome)
	}
}
