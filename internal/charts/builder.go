// Package charts builds the category and status-code datasets for a job and
// renders them as images.
package charts

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/report"
)

// topStatusCodes is the number of bars in the status-code chart.
const topStatusCodes = 10

// Segment is one slice of the category distribution.
type Segment struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Fill    string  `json:"fill"`
	Border  string  `json:"border"`
	// Tooltip is the hover text, e.g. "Success (200-299): 5 (50.0%)".
	Tooltip string `json:"tooltip"`

	color report.Color
}

// CategoryDataset is the doughnut chart input.
type CategoryDataset struct {
	Total    int       `json:"total"`
	Segments []Segment `json:"segments"`
}

// BuildCategories returns one segment per category in display order. When
// the total is zero every percentage is 0.
func BuildCategories(stats model.StatsSummary) CategoryDataset {
	ds := CategoryDataset{Segments: make([]Segment, 0, len(report.Categories))}
	for _, c := range report.Categories {
		ds.Total += c.Count(stats.StatusCategories)
	}

	for _, c := range report.Categories {
		n := c.Count(stats.StatusCategories)
		var pct float64
		if ds.Total > 0 {
			pct = float64(n) / float64(ds.Total) * 100
		}
		ds.Segments = append(ds.Segments, Segment{
			Name:    c.Name,
			Label:   c.Label,
			Count:   n,
			Percent: pct,
			Fill:    c.Color.RGBA(report.FillAlpha),
			Border:  c.Color.RGBA(report.BorderAlpha),
			Tooltip: fmt.Sprintf("%s: %d (%.1f%%)", c.Label, n, pct),
			color:   c.Color,
		})
	}
	return ds
}

// Bar is one status code in the top-codes chart.
type Bar struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Category string `json:"category"`
	Fill     string `json:"fill"`
	Border   string `json:"border"`
	// Title and Tooltip are the hover heading and text,
	// e.g. "Status Code: 404" and "Count: 12".
	Title   string `json:"title"`
	Tooltip string `json:"tooltip"`

	color report.Color
}

// StatusCodeDataset is the bar chart input.
type StatusCodeDataset struct {
	Bars []Bar `json:"bars"`
}

// BuildStatusCodes keeps the ten most frequent status codes, most frequent
// first. Equal counts keep numeric codes ascending ahead of other keys.
func BuildStatusCodes(stats model.StatsSummary) StatusCodeDataset {
	codes := make([]string, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}

	sort.SliceStable(codes, func(i, j int) bool {
		ci, cj := stats.StatusCounts[codes[i]], stats.StatusCounts[codes[j]]
		if ci != cj {
			return ci > cj
		}
		return keyLess(codes[i], codes[j])
	})
	codes = codes[:min(len(codes), topStatusCodes)]

	ds := StatusCodeDataset{Bars: make([]Bar, 0, len(codes))}
	for _, code := range codes {
		c := report.Classify(model.RawCode(code))
		ds.Bars = append(ds.Bars, Bar{
			Code:     code,
			Label:    "Status " + code,
			Count:    stats.StatusCounts[code],
			Category: c.Name,
			Fill:     c.Color.RGBA(report.FillAlpha),
			Border:   c.Color.RGBA(report.BorderAlpha),
			Title:    "Status Code: " + code,
			Tooltip:  fmt.Sprintf("Count: %d", stats.StatusCounts[code]),
			color:    c.Color,
		})
	}
	return ds
}

func keyLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
