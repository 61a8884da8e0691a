package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/charts"
	"github.com/coolBuddy03/sitemapmonitoring/internal/export"
	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/errs"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/requestid"
	"github.com/coolBuddy03/sitemapmonitoring/internal/session"
	"github.com/google/uuid"
)

// CookieName names the cookie carrying the session id.
const CookieName = "sitemap_session"

const (
	targetCategories  = "categories"
	targetStatusCodes = "status-codes"
)

//go:embed templates/*.html
var templateFS embed.FS

const msgNoResults = "No results to export."

// Transport serves the dashboard page and its form actions, charts,
// exports and JSON session snapshot.
type Transport struct {
	controller *session.Controller
	board      *charts.Board
	logger     *slog.Logger
	tmpl       *template.Template
	now        func() time.Time
}

// NewTransport creates an HTTP transport backed by the given controller.
// Rendered charts are cached on board.
func NewTransport(controller *session.Controller, board *charts.Board, logger *slog.Logger) *Transport {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	return &Transport{
		controller: controller,
		board:      board,
		logger:     logger,
		tmpl:       tmpl,
		now:        time.Now,
	}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", t.handleIndex)
	mux.HandleFunc("POST /submit", t.handleSubmit)
	mux.HandleFunc("POST /filter/{category}", t.handleFilter)
	mux.HandleFunc("POST /page/{page}", t.handlePage)
	mux.HandleFunc("POST /dismiss", t.handleDismiss)
	mux.HandleFunc("GET /charts/{target}", t.handleChart)
	mux.HandleFunc("GET /export/{format}", t.handleExport)
	mux.HandleFunc("GET /api/session", t.handleSession)
	mux.HandleFunc("GET /health", t.handleHealth)
}

func (t *Transport) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := t.sessionID(w, r)
	s, err := t.controller.State(r.Context(), id)
	if err != nil {
		t.storeFailure(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, "index.html", newPageView(s)); err != nil {
		t.logger.Error("failed to render page", "error", err, requestid.Attr(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

type submitRequest struct {
	SitemapURL string `json:"sitemap_url"`
}

func (t *Transport) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req submitRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"sitemap_url\" field.")
			return
		}
	} else {
		req.SitemapURL = r.PostFormValue("sitemap_url")
	}

	id := t.sessionID(w, r)
	s, effects, err := t.controller.Submit(r.Context(), id, req.SitemapURL)
	t.respond(w, r, id, s, effects, err)
}

func (t *Transport) handleFilter(w http.ResponseWriter, r *http.Request) {
	id := t.sessionID(w, r)
	s, effects, err := t.controller.Dispatch(r.Context(), id, session.ToggleCategory{Name: r.PathValue("category")})
	t.respond(w, r, id, s, effects, err)
}

func (t *Transport) handlePage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		t.renderError(w, http.StatusBadRequest, "Page must be a number.")
		return
	}

	id := t.sessionID(w, r)
	s, effects, err := t.controller.Dispatch(r.Context(), id, session.GoToPage{Page: page})
	t.respond(w, r, id, s, effects, err)
}

func (t *Transport) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := t.sessionID(w, r)
	s, effects, err := t.controller.Dispatch(r.Context(), id, session.Dismiss{})
	t.respond(w, r, id, s, effects, err)
}

// respond replays effects on server-side resources, then answers JSON
// clients with the session snapshot and browsers with a redirect to the page.
func (t *Transport) respond(w http.ResponseWriter, r *http.Request, id string, s session.State, effects []session.Effect, err error) {
	if err != nil {
		t.storeFailure(w, r, err)
		return
	}
	t.replay(id, effects)

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	switch {
	case s.Phase == session.Processing:
		status = http.StatusAccepted
	case s.Error != nil && s.Error.Kind == errs.InvalidInput.String():
		status = http.StatusBadRequest
	}
	t.renderJSON(w, status, newSessionView(s, effects))
}

func (t *Transport) replay(id string, effects []session.Effect) {
	for _, e := range effects {
		if e == session.ClearPanels {
			t.releaseCharts(id)
		}
	}
}

func (t *Transport) releaseCharts(id string) {
	for _, target := range []string{targetCategories, targetStatusCodes} {
		for _, f := range []charts.Format{charts.SVG, charts.PNG} {
			t.board.Release(boardTarget(id, target, f))
		}
	}
}

func boardTarget(id, target string, f charts.Format) string {
	return id + "/" + target + "." + string(f)
}

func (t *Transport) handleChart(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("target")
	var draw func(*bytes.Buffer, *model.JobResponse, charts.Format) error
	switch target {
	case targetCategories:
		draw = func(buf *bytes.Buffer, job *model.JobResponse, f charts.Format) error {
			return charts.RenderCategories(buf, charts.BuildCategories(job.Stats), f)
		}
	case targetStatusCodes:
		draw = func(buf *bytes.Buffer, job *model.JobResponse, f charts.Format) error {
			return charts.RenderStatusCodes(buf, charts.BuildStatusCodes(job.Stats), f)
		}
	default:
		t.renderError(w, http.StatusNotFound, fmt.Sprintf("Unknown chart %q.", target))
		return
	}

	id, ok := existingSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s, err := t.controller.State(r.Context(), id)
	if err != nil {
		t.storeFailure(w, r, err)
		return
	}
	if s.Job == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	f := charts.ParseFormat(r.URL.Query().Get("format"))
	c, img, err := t.board.Render(boardTarget(id, target, f), s.JobID, f, func(buf *bytes.Buffer) error {
		return draw(buf, s.Job, f)
	})
	if errors.Is(err, charts.ErrEmptyDataset) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		t.logger.Error("failed to render chart",
			"error", err,
			"chart", target,
			requestid.Attr(r.Context()),
		)
		t.renderError(w, http.StatusInternalServerError, "Failed to render chart.")
		return
	}

	w.Header().Set("Content-Type", c.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func (t *Transport) handleExport(w http.ResponseWriter, r *http.Request) {
	var (
		filename    string
		contentType string
		write       func(*bytes.Buffer, *model.JobResponse) error
	)
	switch r.PathValue("format") {
	case "csv":
		filename, contentType = export.CSVFilename, export.CSVContentType
		write = func(buf *bytes.Buffer, job *model.JobResponse) error {
			return export.WriteCSV(buf, job.Results)
		}
	case "xlsx":
		filename, contentType = export.XLSXFilename, export.XLSXContentType
		write = func(buf *bytes.Buffer, job *model.JobResponse) error {
			return export.WriteWorkbook(buf, job.Results)
		}
	case "report":
		filename, contentType = export.ReportFilename, export.XLSXContentType
		write = func(buf *bytes.Buffer, job *model.JobResponse) error {
			return export.WriteReport(buf, job, t.now())
		}
	default:
		t.renderError(w, http.StatusNotFound, "Unknown export format.")
		return
	}

	job, err := t.currentJob(r)
	if err != nil {
		t.storeFailure(w, r, err)
		return
	}
	if job == nil {
		t.renderError(w, http.StatusNotFound, msgNoResults)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, job); err != nil {
		t.logger.Error("failed to export results",
			"error", err,
			"format", r.PathValue("format"),
			requestid.Attr(r.Context()),
		)
		t.renderError(w, http.StatusInternalServerError, "Failed to export results.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (t *Transport) currentJob(r *http.Request) (*model.JobResponse, error) {
	id, ok := existingSessionID(r)
	if !ok {
		return nil, nil
	}
	s, err := t.controller.State(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return s.Job, nil
}

func (t *Transport) handleSession(w http.ResponseWriter, r *http.Request) {
	id := t.sessionID(w, r)
	s, err := t.controller.State(r.Context(), id)
	if err != nil {
		t.storeFailure(w, r, err)
		return
	}
	t.renderJSON(w, http.StatusOK, newSessionView(s, nil))
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: "Service is running"})
}

// sessionID returns the id carried by the session cookie, issuing a new
// one when it is missing or malformed.
func (t *Transport) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := existingSessionID(r); ok {
		return id
	}

	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return id
}

func existingSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

func wantsJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return true
	}
	accept, _, _ := mime.ParseMediaType(r.Header.Get("Accept"))
	return accept == "application/json"
}

func (t *Transport) storeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	t.logger.Error("session store failed", "error", err, requestid.Attr(r.Context()))
	t.renderError(w, status, "Session storage is unavailable.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
