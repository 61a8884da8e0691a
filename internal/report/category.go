// Package report turns a job's check results into what the dashboard shows:
// category filtering, pagination and table rows.
package report

import (
	"fmt"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
)

// Color is an RGB color; alpha is applied by the consumer.
type Color struct {
	R, G, B uint8
}

// RGBA renders the color as a CSS rgba() value.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}

// Fill and border opacities used for every category-colored element.
const (
	FillAlpha   = 0.7
	BorderAlpha = 1.0
)

// Category is one of the five status-code buckets. Badges, chart segments,
// row styles and filters all read from the same table.
type Category struct {
	Name     string // stable identifier, e.g. "client_error"
	Label    string // chart and export label
	RowClass string // CSS class for table rows
	Min, Max int    // inclusive range; both zero for the catch-all bucket
	Color    Color
}

// IsOther reports whether c is the catch-all bucket.
func (c Category) IsOther() bool {
	return c.Min == 0 && c.Max == 0
}

// Contains reports whether a result with the given status belongs to c.
// Invalid status codes only ever belong to the catch-all bucket.
func (c Category) Contains(status model.StatusCode) bool {
	code, ok := status.Int()
	if c.IsOther() {
		return !ok || code < Success.Min || code > ServerError.Max
	}
	return ok && code >= c.Min && code <= c.Max
}

// Count returns this category's entry in counts.
func (c Category) Count(counts model.CategoryCounts) int {
	switch c.Name {
	case Success.Name:
		return counts.Success
	case Redirect.Name:
		return counts.Redirect
	case ClientError.Name:
		return counts.ClientError
	case ServerError.Name:
		return counts.ServerError
	default:
		return counts.Other
	}
}

var (
	Success = Category{
		Name: "success", Label: "Success (200-299)", RowClass: "success",
		Min: 200, Max: 299, Color: Color{40, 167, 69},
	}
	Redirect = Category{
		Name: "redirect", Label: "Redirect (300-399)", RowClass: "redirect",
		Min: 300, Max: 399, Color: Color{23, 162, 184},
	}
	ClientError = Category{
		Name: "client_error", Label: "Client Error (400-499)", RowClass: "client-error",
		Min: 400, Max: 499, Color: Color{255, 193, 7},
	}
	ServerError = Category{
		Name: "server_error", Label: "Server Error (500-599)", RowClass: "server-error",
		Min: 500, Max: 599, Color: Color{220, 53, 69},
	}
	Other = Category{
		Name: "other", Label: "Other Errors", RowClass: "error",
		Color: Color{108, 117, 125},
	}
)

// Categories lists every bucket in display order.
var Categories = []Category{Success, Redirect, ClientError, ServerError, Other}

// Lookup finds a category by name.
func Lookup(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Classify returns the single category a status belongs to.
func Classify(status model.StatusCode) Category {
	for _, c := range Categories[:len(Categories)-1] {
		if c.Contains(status) {
			return c
		}
	}
	return Other
}
