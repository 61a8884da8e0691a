// Package export serializes a job's results as CSV or an Excel workbook.
// Every export covers the whole result set, not the filtered page.
package export

import (
	"fmt"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/report"
)

// File names and MIME types of the downloads.
const (
	CSVFilename    = "sitemap_results.csv"
	XLSXFilename   = "sitemap_results.xlsx"
	ReportFilename = "sitemap_report.xlsx"

	CSVContentType  = "text/csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SheetName is the name of the single worksheet.
const SheetName = "URL Status"

// Header is the column header shared by every format.
var Header = []string{"URL", "Status Code", "Status Message", "Is Redirect", "Redirect URL"}

// Rows returns the workbook rows for results: the header followed by one row
// per result, booleans as "Yes"/"No" and missing values as "".
func Rows(results []model.CheckResult) [][]any {
	rows := make([][]any, 0, len(results)+1)
	rows = append(rows, headerRow())
	for _, r := range results {
		rows = append(rows, detailRow(r))
	}
	return rows
}

// ReportRows prepends a summary block to Rows for the full report export.
func ReportRows(job *model.JobResponse, generatedAt time.Time) [][]any {
	rows := [][]any{
		{"Sitemap Monitor Report"},
		{"Generated on", generatedAt.Format("2006-01-02 15:04:05")},
		{"Sitemap URL", job.SitemapURL},
		{"Processing Time", fmt.Sprintf("%g seconds", job.ProcessingTime)},
		{"Total URLs", job.TotalURLs},
		{},
		{"Status Summary"},
	}
	for _, c := range report.Categories {
		rows = append(rows, []any{c.Label, c.Count(job.Stats.StatusCategories)})
	}
	rows = append(rows, []any{}, []any{"URL Details"})
	return append(rows, Rows(job.Results)...)
}

func headerRow() []any {
	row := make([]any, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	return row
}

func detailRow(r model.CheckResult) []any {
	var status any = r.StatusCode.String()
	if code, ok := r.StatusCode.Int(); ok {
		status = code
	}
	redirect := "No"
	if r.IsRedirect {
		redirect = "Yes"
	}
	return []any{r.URL, status, r.StatusMessage, redirect, r.Redirect()}
}
