// Package session holds one user's dashboard state and the transitions
// between Idle, Processing, Results and Error.
package session

import (
	"strings"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/errs"
	"github.com/coolBuddy03/sitemapmonitoring/internal/report"
)

// MsgEmptyURL is the validation message for a blank submission.
const MsgEmptyURL = "Please enter a sitemap URL"

// MsgJobExpired is shown when a job's outcome never arrived.
const MsgJobExpired = "Processing the sitemap timed out. Please try again later."

// Phase is the coarse state of a session.
type Phase string

const (
	Idle       Phase = "idle"
	Processing Phase = "processing"
	Results    Phase = "results"
	Failed     Phase = "error"
)

// Failure is the error panel content.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// State is everything the dashboard needs to render one session.
type State struct {
	Phase      Phase              `json:"phase"`
	JobID      string             `json:"job_id,omitempty"`
	SitemapURL string             `json:"sitemap_url,omitempty"`
	Job        *model.JobResponse `json:"job,omitempty"`
	Filter     string             `json:"filter,omitempty"`
	Page       int                `json:"page"`
	Error      *Failure           `json:"error,omitempty"`
	StartedAt  time.Time          `json:"started_at,omitzero"`
}

// NewState returns an idle session.
func NewState() State {
	return State{Phase: Idle, Page: 1}
}

// Filtered returns the job's results after the active filter.
func (s State) Filtered() []model.CheckResult {
	if s.Job == nil {
		return nil
	}
	return report.Apply(s.Job.Results, s.Filter)
}

// SubmitDisabled reports whether the submit control is disabled.
func (s State) SubmitDisabled() bool {
	return s.Phase == Processing
}

// Stale reports whether s has been Processing for longer than after.
func (s State) Stale(now time.Time, after time.Duration) bool {
	return s.Phase == Processing && !s.StartedAt.IsZero() && now.Sub(s.StartedAt) > after
}

// Effect is an instruction for the UI adapter produced by a transition.
type Effect string

const (
	DisableSubmit   Effect = "disable_submit"
	EnableSubmit    Effect = "enable_submit"
	ShowBusy        Effect = "show_busy"
	HideBusy        Effect = "hide_busy"
	ClearPanels     Effect = "clear_panels"
	SendRequest     Effect = "send_request"
	RenderSummary   Effect = "render_summary"
	RenderCharts    Effect = "render_charts"
	RenderTable     Effect = "render_table"
	HighlightBadges Effect = "highlight_badges"
	ShowError       Effect = "show_error"
	HideError       Effect = "hide_error"
)

// Event is an input to the state machine.
type Event interface {
	apply(State) (State, []Effect)
}

// Submit is the form submission of a sitemap URL.
type Submit struct {
	URL   string
	JobID string
	At    time.Time
}

// Succeeded delivers the backend's response for JobID.
type Succeeded struct {
	JobID string
	Job   *model.JobResponse
}

// FailedWith delivers a backend or network failure for JobID.
type FailedWith struct {
	JobID string
	Err   error
}

// ToggleCategory selects a category filter, or clears it when it is the
// active one.
type ToggleCategory struct {
	Name string
}

// GoToPage shows another page of the filtered table.
type GoToPage struct {
	Page int
}

// Dismiss closes the error panel.
type Dismiss struct{}

// Transition applies ev to s. It never mutates s and returns the new state
// with the UI effects to replay; an ignored event yields s and no effects.
func Transition(s State, ev Event) (State, []Effect) {
	return ev.apply(s)
}

func (e Submit) apply(s State) (State, []Effect) {
	if s.Phase == Processing {
		return s, nil
	}

	url := strings.TrimSpace(e.URL)
	if url == "" {
		next := s
		next.Phase = Failed
		next.Error = &Failure{Kind: errs.InvalidInput.String(), Message: MsgEmptyURL}
		if s.Job != nil {
			next.Phase = Results
		}
		return next, []Effect{ShowError}
	}

	next := State{
		Phase:      Processing,
		JobID:      e.JobID,
		SitemapURL: url,
		Page:       1,
		StartedAt:  e.At,
	}
	return next, []Effect{DisableSubmit, ShowBusy, ClearPanels, SendRequest}
}

func (e Succeeded) apply(s State) (State, []Effect) {
	if s.Phase != Processing || s.JobID != e.JobID || e.Job == nil {
		return s, nil
	}

	next := s
	next.Phase = Results
	next.Job = e.Job
	next.Filter = ""
	next.Page = 1
	next.Error = nil
	return next, []Effect{RenderSummary, RenderCharts, RenderTable, EnableSubmit, HideBusy}
}

func (e FailedWith) apply(s State) (State, []Effect) {
	if s.Phase != Processing || s.JobID != e.JobID {
		return s, nil
	}

	next := s
	next.Phase = Failed
	next.Error = &Failure{
		Kind:    errs.KindOf(e.Err).String(),
		Message: errs.MessageOf(e.Err, "An error occurred while processing the sitemap"),
	}
	return next, []Effect{ShowError, EnableSubmit, HideBusy}
}

func (e ToggleCategory) apply(s State) (State, []Effect) {
	if s.Phase != Results || s.Job == nil {
		return s, nil
	}
	if _, ok := report.Lookup(e.Name); !ok {
		return s, nil
	}

	next := s
	if s.Filter == e.Name {
		next.Filter = ""
	} else {
		next.Filter = e.Name
	}
	next.Page = 1
	return next, []Effect{HighlightBadges, RenderTable}
}

func (e GoToPage) apply(s State) (State, []Effect) {
	if s.Phase != Results || s.Job == nil {
		return s, nil
	}

	next := s
	next.Page = report.ClampPage(e.Page, len(s.Filtered()), report.PageSize)
	return next, []Effect{RenderTable}
}

func (Dismiss) apply(s State) (State, []Effect) {
	if s.Error == nil {
		return s, nil
	}

	next := s
	next.Error = nil
	if s.Phase == Failed {
		next.Phase = Idle
	}
	return next, []Effect{HideError}
}
