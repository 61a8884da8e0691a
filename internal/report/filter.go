package report

import "github.com/coolBuddy03/sitemapmonitoring/internal/model"

// Filter returns the results that belong to c, in their original order.
// The input slice is never modified.
func Filter(results []model.CheckResult, c Category) []model.CheckResult {
	out := make([]model.CheckResult, 0, len(results))
	for _, r := range results {
		if c.Contains(r.StatusCode) {
			out = append(out, r)
		}
	}
	return out
}

// Apply filters results by the named category. An empty or unknown name
// means no filter and returns results unchanged.
func Apply(results []model.CheckResult, name string) []model.CheckResult {
	c, ok := Lookup(name)
	if !ok {
		return results
	}
	return Filter(results, c)
}
