package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// JobResponse is the complete result of one sitemap check as returned by the
// backend.
type JobResponse struct {
	SitemapURL     string        `json:"sitemap_url"`
	TotalURLs      int           `json:"total_urls"`
	ProcessingTime float64       `json:"processing_time"`
	Results        []CheckResult `json:"results"`
	Stats          StatsSummary  `json:"stats"`
}

// CheckResult is the outcome of probing a single URL.
type CheckResult struct {
	URL           string     `json:"url"`
	StatusCode    StatusCode `json:"status_code"`
	StatusMessage string     `json:"status_message"`
	IsRedirect    bool       `json:"is_redirect"`
	RedirectURL   *string    `json:"redirect_url"`
}

// Redirect returns the redirect target, or "" when there is none.
func (r CheckResult) Redirect() string {
	if r.RedirectURL == nil {
		return ""
	}
	return *r.RedirectURL
}

// StatsSummary is the backend's aggregate view of a job.
type StatsSummary struct {
	Total            int                `json:"total"`
	StatusCategories CategoryCounts     `json:"status_categories"`
	StatusCounts     map[string]int     `json:"status_counts"`
	Percentages      map[string]float64 `json:"percentages,omitempty"`
}

// CategoryCounts holds the per-category URL counts.
type CategoryCounts struct {
	Success     int `json:"success"`
	Redirect    int `json:"redirect"`
	ClientError int `json:"client_error"`
	ServerError int `json:"server_error"`
	Other       int `json:"other"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StatusCode is an HTTP status as reported by the backend. It accepts JSON
// numbers, numeric strings, arbitrary strings (e.g. "Timeout") and null.
// Only integral values are considered valid codes.
type StatusCode struct {
	code  int
	raw   string
	valid bool
}

// Code returns a valid StatusCode for n.
func Code(n int) StatusCode {
	return StatusCode{code: n, raw: strconv.Itoa(n), valid: true}
}

// RawCode returns a StatusCode for a non-numeric status such as "Timeout".
// Numeric strings are parsed as if they had been numbers.
func RawCode(s string) StatusCode {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Code(n)
	}
	return StatusCode{raw: s}
}

// Int returns the numeric code and whether it is valid.
func (s StatusCode) Int() (int, bool) {
	return s.code, s.valid
}

// IsNull reports whether the backend sent no status at all.
func (s StatusCode) IsNull() bool {
	return !s.valid && s.raw == ""
}

// String renders the code for display; null renders as "".
func (s StatusCode) String() string {
	return s.raw
}

func (s StatusCode) MarshalJSON() ([]byte, error) {
	switch {
	case s.valid:
		return []byte(strconv.Itoa(s.code)), nil
	case s.IsNull():
		return []byte("null"), nil
	default:
		return json.Marshal(s.raw)
	}
}

func (s *StatusCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = StatusCode{}
		return nil
	}

	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = RawCode(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		// booleans, objects and arrays are kept verbatim and never match a range
		*s = StatusCode{raw: string(b)}
		return nil
	}
	if n, err := num.Int64(); err == nil {
		*s = Code(int(n))
		return nil
	}
	*s = StatusCode{raw: num.String()}
	return nil
}
