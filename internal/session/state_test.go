package session

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/errs"
)

func jobWith(codes ...int) *model.JobResponse {
	job := &model.JobResponse{SitemapURL: "https://example.com/sitemap.xml", TotalURLs: len(codes)}
	for i, code := range codes {
		job.Results = append(job.Results, model.CheckResult{
			URL:        fmt.Sprintf("https://example.com/%d", i),
			StatusCode: model.Code(code),
		})
	}
	return job
}

func resultsState(job *model.JobResponse) State {
	s, _ := Transition(NewState(), Submit{URL: job.SitemapURL, JobID: "job-1"})
	s, _ = Transition(s, Succeeded{JobID: "job-1", Job: job})
	return s
}

func TestSubmit_EmptyURLIsValidationError(t *testing.T) {
	for _, url := range []string{"", "   ", "\t\n"} {
		s, effects := Transition(NewState(), Submit{URL: url, JobID: "j"})

		if slices.Contains(effects, SendRequest) {
			t.Errorf("Submit(%q) must not send a request", url)
		}
		if s.Phase != Failed {
			t.Errorf("Phase = %s, want %s", s.Phase, Failed)
		}
		if s.Error == nil || s.Error.Message != MsgEmptyURL || s.Error.Kind != "validation" {
			t.Errorf("Error = %+v", s.Error)
		}
	}
}

func TestSubmit_EmptyURLKeepsPreviousResults(t *testing.T) {
	s := resultsState(jobWith(200))
	s, _ = Transition(s, Submit{URL: " ", JobID: "j2"})

	if s.Phase != Results || s.Job == nil {
		t.Errorf("results should stay visible, phase = %s", s.Phase)
	}
	if s.Error == nil {
		t.Error("expected validation error")
	}
}

func TestSubmit_StartsProcessing(t *testing.T) {
	prev := resultsState(jobWith(200, 404))
	prev.Filter = "client_error"

	s, effects := Transition(prev, Submit{URL: "  https://example.com/sitemap.xml ", JobID: "job-2"})

	want := []Effect{DisableSubmit, ShowBusy, ClearPanels, SendRequest}
	if !slices.Equal(effects, want) {
		t.Errorf("effects = %v, want %v", effects, want)
	}
	if s.Phase != Processing || !s.SubmitDisabled() {
		t.Errorf("phase = %s", s.Phase)
	}
	if s.SitemapURL != "https://example.com/sitemap.xml" {
		t.Errorf("SitemapURL = %q", s.SitemapURL)
	}
	if s.Job != nil || s.Filter != "" || s.Error != nil {
		t.Error("previous results, filter and error must be cleared")
	}
	if prev.Job == nil || prev.Filter != "client_error" {
		t.Error("Transition mutated its input")
	}
}

func TestSubmit_IgnoredWhileProcessing(t *testing.T) {
	s, _ := Transition(NewState(), Submit{URL: "https://a/sitemap.xml", JobID: "job-1"})
	again, effects := Transition(s, Submit{URL: "https://b/sitemap.xml", JobID: "job-2"})

	if len(effects) != 0 {
		t.Errorf("effects = %v, want none", effects)
	}
	if again.JobID != "job-1" {
		t.Errorf("JobID = %q, want job-1", again.JobID)
	}
}

func TestSucceeded_ShowsFirstUnfilteredPage(t *testing.T) {
	job := jobWith(200, 301, 404)
	s, _ := Transition(NewState(), Submit{URL: job.SitemapURL, JobID: "job-1"})
	s, effects := Transition(s, Succeeded{JobID: "job-1", Job: job})

	if s.Phase != Results || s.Job != job || s.Page != 1 || s.Filter != "" {
		t.Errorf("state = %+v", s)
	}
	for _, e := range []Effect{RenderSummary, RenderCharts, RenderTable, EnableSubmit} {
		if !slices.Contains(effects, e) {
			t.Errorf("missing effect %s", e)
		}
	}
}

func TestSucceeded_StaleJobIgnored(t *testing.T) {
	s, _ := Transition(NewState(), Submit{URL: "https://a/sitemap.xml", JobID: "job-2"})
	s, effects := Transition(s, Succeeded{JobID: "job-1", Job: jobWith(200)})

	if s.Phase != Processing || len(effects) != 0 {
		t.Errorf("stale outcome applied: phase=%s effects=%v", s.Phase, effects)
	}
}

func TestFailedWith_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
		wantMsg  string
	}{
		{
			name:     "server message",
			err:      &errs.AppError{Kind: errs.Request, Message: "No sitemap URL provided"},
			wantKind: "request", wantMsg: "No sitemap URL provided",
		},
		{
			name:     "plain error",
			err:      errors.New("dial tcp: connection refused"),
			wantKind: "unknown", wantMsg: "An error occurred while processing the sitemap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := Transition(NewState(), Submit{URL: "https://a/sitemap.xml", JobID: "job-1"})
			s, effects := Transition(s, FailedWith{JobID: "job-1", Err: tt.err})

			if s.Phase != Failed {
				t.Errorf("phase = %s, want %s", s.Phase, Failed)
			}
			if s.Error.Kind != tt.wantKind || s.Error.Message != tt.wantMsg {
				t.Errorf("Error = %+v", s.Error)
			}
			if !slices.Contains(effects, EnableSubmit) || s.SubmitDisabled() {
				t.Error("submit must be re-enabled after failure")
			}
		})
	}
}

func TestToggleCategory_TwiceRestoresUnfilteredPageOne(t *testing.T) {
	codes := make([]int, 0, 250)
	for range 250 {
		codes = append(codes, 200)
	}
	codes = append(codes, 404)
	s := resultsState(jobWith(codes...))
	s, _ = Transition(s, GoToPage{Page: 3})

	s, _ = Transition(s, ToggleCategory{Name: "client_error"})
	if s.Filter != "client_error" || s.Page != 1 {
		t.Fatalf("after first toggle: filter=%q page=%d", s.Filter, s.Page)
	}
	if n := len(s.Filtered()); n != 1 {
		t.Errorf("filtered = %d, want 1", n)
	}

	s, _ = Transition(s, ToggleCategory{Name: "client_error"})
	if s.Filter != "" || s.Page != 1 {
		t.Errorf("after second toggle: filter=%q page=%d", s.Filter, s.Page)
	}
	if n := len(s.Filtered()); n != 251 {
		t.Errorf("filtered = %d, want 251", n)
	}
}

func TestToggleCategory_SwitchesAndIgnoresUnknown(t *testing.T) {
	s := resultsState(jobWith(200, 500))
	s, _ = Transition(s, ToggleCategory{Name: "success"})
	s, _ = Transition(s, ToggleCategory{Name: "server_error"})
	if s.Filter != "server_error" {
		t.Errorf("Filter = %q, want server_error", s.Filter)
	}

	same, effects := Transition(s, ToggleCategory{Name: "teapot"})
	if same.Filter != "server_error" || len(effects) != 0 {
		t.Error("unknown category should be ignored")
	}
}

func TestToggleCategory_IgnoredWithoutResults(t *testing.T) {
	s, effects := Transition(NewState(), ToggleCategory{Name: "success"})
	if s.Filter != "" || len(effects) != 0 {
		t.Error("toggle before results should be ignored")
	}
}

func TestGoToPage_ClampsToFilteredRange(t *testing.T) {
	codes := make([]int, 0, 230)
	for range 230 {
		codes = append(codes, 200)
	}
	s := resultsState(jobWith(codes...))

	tests := []struct{ page, want int }{
		{page: 2, want: 2},
		{page: 3, want: 3},
		{page: 99, want: 3},
		{page: -1, want: 1},
	}
	for _, tt := range tests {
		got, effects := Transition(s, GoToPage{Page: tt.page})
		if got.Page != tt.want {
			t.Errorf("GoToPage(%d) = %d, want %d", tt.page, got.Page, tt.want)
		}
		if got.Filter != s.Filter {
			t.Error("paging must not change the filter")
		}
		if !slices.Equal(effects, []Effect{RenderTable}) {
			t.Errorf("effects = %v", effects)
		}
	}

	empty, _ := Transition(s, ToggleCategory{Name: "other"})
	empty, _ = Transition(empty, GoToPage{Page: 5})
	if empty.Page != 1 {
		t.Errorf("page with no filtered results = %d, want 1", empty.Page)
	}
}

func TestDismiss(t *testing.T) {
	s, _ := Transition(NewState(), Submit{URL: "", JobID: "j"})
	s, effects := Transition(s, Dismiss{})
	if s.Phase != Idle || s.Error != nil {
		t.Errorf("after dismiss: %+v", s)
	}
	if !slices.Equal(effects, []Effect{HideError}) {
		t.Errorf("effects = %v", effects)
	}

	_, effects = Transition(s, Dismiss{})
	if len(effects) != 0 {
		t.Error("dismiss without error should be ignored")
	}
}

func TestState_Stale(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, _ := Transition(NewState(), Submit{URL: "https://a/sitemap.xml", JobID: "j", At: start})

	if !s.StartedAt.Equal(start) {
		t.Fatalf("StartedAt = %v, want %v", s.StartedAt, start)
	}
	if s.Stale(start.Add(time.Minute), time.Minute) {
		t.Error("job at the limit should not be stale")
	}
	if !s.Stale(start.Add(time.Minute+time.Second), time.Minute) {
		t.Error("job past the limit should be stale")
	}

	done, _ := Transition(s, FailedWith{JobID: "j", Err: errors.New("boom")})
	if done.Stale(start.Add(time.Hour), time.Minute) {
		t.Error("only Processing sessions can be stale")
	}
	if (State{Phase: Processing}).Stale(start, 0) {
		t.Error("a session without a start time is never stale")
	}
}
