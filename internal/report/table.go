package report

import (
	"unicode/utf8"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
)

// maxURLDisplay is the number of runes shown before a URL is truncated.
const maxURLDisplay = 80

// Row is one table row ready for the template.
type Row struct {
	Class         string `json:"class"`
	URL           string `json:"url"`
	DisplayURL    string `json:"display_url"`
	StatusCode    string `json:"status_code"`
	StatusMessage string `json:"status_message"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

// HasRedirect reports whether the row links to a redirect target.
func (r Row) HasRedirect() bool {
	return r.RedirectURL != ""
}

// Render projects a page of results into display rows. The full URL is
// always kept for the tooltip even when DisplayURL is shortened.
func Render(page []model.CheckResult) []Row {
	rows := make([]Row, 0, len(page))
	for _, r := range page {
		row := Row{
			Class:         RowClass(r.StatusCode),
			URL:           r.URL,
			DisplayURL:    truncate(r.URL, maxURLDisplay),
			StatusCode:    r.StatusCode.String(),
			StatusMessage: r.StatusMessage,
		}
		if r.IsRedirect {
			row.RedirectURL = r.Redirect()
		}
		rows = append(rows, row)
	}
	return rows
}

// RowClass returns the style class for a status code.
func RowClass(status model.StatusCode) string {
	return Classify(status).RowClass
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
