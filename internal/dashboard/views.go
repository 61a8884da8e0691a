package dashboard

import (
	"fmt"
	"html/template"

	"github.com/coolBuddy03/sitemapmonitoring/internal/charts"
	"github.com/coolBuddy03/sitemapmonitoring/internal/report"
	"github.com/coolBuddy03/sitemapmonitoring/internal/session"
)

// refreshSeconds is how often the page reloads while a job is processing.
const refreshSeconds = 2

type badgeView struct {
	Name   string
	Label  string
	Count  int
	Active bool
	Dimmed bool
	Style  template.CSS
}

func badgeStyle(c report.Color) template.CSS {
	color := c.RGBA(report.BorderAlpha)
	return template.CSS("border-color: " + color + "; color: " + color)
}

type pageView struct {
	State          session.State
	Processing     bool
	HasResults     bool
	RefreshSeconds int
	TotalURLs      int
	ProcessingTime string
	Badges         []badgeView
	Rows           []report.Row
	FilteredCount  int
	Pagination     report.Controls
	ChartVersion   string
	Categories     charts.CategoryDataset
	StatusCodes    charts.StatusCodeDataset
}

func newPageView(s session.State) pageView {
	v := pageView{
		State:      s,
		Processing: s.Phase == session.Processing,
		HasResults: s.Job != nil,
	}
	if v.Processing {
		v.RefreshSeconds = refreshSeconds
	}
	if s.Job == nil {
		return v
	}

	v.TotalURLs = s.Job.TotalURLs
	v.ProcessingTime = fmt.Sprintf("%.2fs", s.Job.ProcessingTime)
	v.ChartVersion = s.JobID
	v.Categories = charts.BuildCategories(s.Job.Stats)
	v.StatusCodes = charts.BuildStatusCodes(s.Job.Stats)

	for _, c := range report.Categories {
		v.Badges = append(v.Badges, badgeView{
			Name:   c.Name,
			Label:  c.Label,
			Count:  c.Count(s.Job.Stats.StatusCategories),
			Active: s.Filter == c.Name,
			Dimmed: s.Filter != "" && s.Filter != c.Name,
			Style:  badgeStyle(c.Color),
		})
	}

	filtered := s.Filtered()
	page := report.ClampPage(s.Page, len(filtered), report.PageSize)
	items, total := report.Paginate(filtered, page, report.PageSize)
	v.FilteredCount = len(filtered)
	v.Rows = report.Render(items)
	v.Pagination = report.NewControls(page, total)
	return v
}

// sessionView is the JSON snapshot served by /api/session.
type sessionView struct {
	Phase          session.Phase             `json:"phase"`
	JobID          string                    `json:"job_id,omitempty"`
	SitemapURL     string                    `json:"sitemap_url,omitempty"`
	Error          *session.Failure          `json:"error,omitempty"`
	SubmitDisabled bool                      `json:"submit_disabled"`
	TotalURLs      int                       `json:"total_urls"`
	ProcessingTime float64                   `json:"processing_time"`
	Filter         string                    `json:"filter,omitempty"`
	FilteredCount  int                       `json:"filtered_count"`
	Rows           []report.Row              `json:"rows"`
	Pagination     report.Controls           `json:"pagination"`
	Categories     *charts.CategoryDataset   `json:"categories,omitempty"`
	StatusCodes    *charts.StatusCodeDataset `json:"status_codes,omitempty"`
	Effects        []session.Effect          `json:"effects,omitempty"`
}

func newSessionView(s session.State, effects []session.Effect) sessionView {
	pv := newPageView(s)
	v := sessionView{
		Phase:          s.Phase,
		JobID:          s.JobID,
		SitemapURL:     s.SitemapURL,
		Error:          s.Error,
		SubmitDisabled: s.SubmitDisabled(),
		Filter:         s.Filter,
		FilteredCount:  pv.FilteredCount,
		Rows:           pv.Rows,
		Pagination:     pv.Pagination,
		Effects:        effects,
	}
	if v.Rows == nil {
		v.Rows = []report.Row{}
	}
	if s.Job != nil {
		v.TotalURLs = s.Job.TotalURLs
		v.ProcessingTime = s.Job.ProcessingTime
		v.Categories = &pv.Categories
		v.StatusCodes = &pv.StatusCodes
	}
	return v
}
