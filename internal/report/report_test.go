package report

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
)

func result(url string, status model.StatusCode) model.CheckResult {
	return model.CheckResult{URL: url, StatusCode: status, StatusMessage: "msg"}
}

func mixedResults() []model.CheckResult {
	return []model.CheckResult{
		result("https://a/1", model.Code(200)),
		result("https://a/2", model.Code(299)),
		result("https://a/3", model.Code(301)),
		result("https://a/4", model.Code(404)),
		result("https://a/5", model.Code(500)),
		result("https://a/6", model.Code(599)),
		result("https://a/7", model.Code(0)),
		result("https://a/8", model.Code(199)),
		result("https://a/9", model.Code(600)),
		result("https://a/10", model.RawCode("Timeout")),
		result("https://a/11", model.StatusCode{}),
	}
}

func urls(rs []model.CheckResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.URL
	}
	return out
}

func TestFilter_Ranges(t *testing.T) {
	rs := mixedResults()

	tests := []struct {
		category Category
		want     []string
	}{
		{Success, []string{"https://a/1", "https://a/2"}},
		{Redirect, []string{"https://a/3"}},
		{ClientError, []string{"https://a/4"}},
		{ServerError, []string{"https://a/5", "https://a/6"}},
		{Other, []string{"https://a/7", "https://a/8", "https://a/9", "https://a/10", "https://a/11"}},
	}

	for _, tt := range tests {
		t.Run(tt.category.Name, func(t *testing.T) {
			got := urls(Filter(rs, tt.category))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%s) = %v, want %v", tt.category.Name, got, tt.want)
			}
		})
	}
}

func TestFilter_IsPartition(t *testing.T) {
	rs := mixedResults()
	seen := map[string]string{}
	total := 0

	for _, c := range Categories {
		for _, r := range Filter(rs, c) {
			if prev, dup := seen[r.URL]; dup {
				t.Errorf("%s in both %s and %s", r.URL, prev, c.Name)
			}
			seen[r.URL] = c.Name
			total++
		}
	}
	if total != len(rs) {
		t.Errorf("categories cover %d results, want %d", total, len(rs))
	}
}

func TestFilter_IdempotentAndPure(t *testing.T) {
	rs := mixedResults()
	before := urls(rs)

	once := Filter(rs, ClientError)
	twice := Filter(once, ClientError)

	if !slices.Equal(urls(once), urls(twice)) {
		t.Errorf("filter not idempotent: %v vs %v", urls(once), urls(twice))
	}
	if !slices.Equal(urls(rs), before) {
		t.Error("input slice was modified")
	}
}

func TestApply_UnknownNameIsNoFilter(t *testing.T) {
	rs := mixedResults()
	if got := Apply(rs, ""); len(got) != len(rs) {
		t.Errorf("Apply(\"\") len = %d, want %d", len(got), len(rs))
	}
	if got := Apply(rs, "teapot"); len(got) != len(rs) {
		t.Errorf("Apply(unknown) len = %d, want %d", len(got), len(rs))
	}
	if got := Apply(rs, "redirect"); len(got) != 1 {
		t.Errorf("Apply(redirect) len = %d, want 1", len(got))
	}
}

func TestClassify_MatchesRowClass(t *testing.T) {
	tests := []struct {
		status model.StatusCode
		want   string
	}{
		{model.Code(204), "success"},
		{model.Code(302), "redirect"},
		{model.Code(410), "client-error"},
		{model.Code(503), "server-error"},
		{model.Code(0), "error"},
		{model.Code(700), "error"},
		{model.RawCode("Error"), "error"},
		{model.StatusCode{}, "error"},
	}

	for _, tt := range tests {
		if got := RowClass(tt.status); got != tt.want {
			t.Errorf("RowClass(%q) = %q, want %q", tt.status.String(), got, tt.want)
		}
	}
}

func TestPaginate_ReconstructsInput(t *testing.T) {
	for _, n := range []int{0, 1, 99, 100, 101, 250, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			_, total := Paginate(items, 1, PageSize)
			var rebuilt []int
			for p := 1; p <= total; p++ {
				page, _ := Paginate(items, p, PageSize)
				if len(page) > PageSize {
					t.Fatalf("page %d has %d items", p, len(page))
				}
				rebuilt = append(rebuilt, page...)
			}

			if !slices.Equal(rebuilt, items) {
				t.Errorf("pages do not reconstruct input: got %d items, want %d", len(rebuilt), n)
			}
		})
	}
}

func TestPaginate_EmptyHasOnePage(t *testing.T) {
	page, total := Paginate([]int{}, 1, PageSize)
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if len(page) != 0 {
		t.Errorf("len(page) = %d, want 0", len(page))
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct{ page, n, want int }{
		{page: 0, n: 250, want: 1},
		{page: 2, n: 250, want: 2},
		{page: 9, n: 250, want: 3},
		{page: 4, n: 0, want: 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.n, PageSize); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.n, got, tt.want)
		}
	}
}

func pageNumbers(c Controls) []int {
	out := make([]int, len(c.Pages))
	for i, p := range c.Pages {
		out[i] = p.Number
	}
	return out
}

func TestNewControls_Window(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		total        int
		want         []int
		prevDisabled bool
		nextDisabled bool
	}{
		{name: "first of many", current: 1, total: 10, want: []int{1, 2, 3, 4, 5}, prevDisabled: true},
		{name: "middle", current: 6, total: 10, want: []int{4, 5, 6, 7, 8}},
		{name: "near end re-anchors", current: 9, total: 10, want: []int{6, 7, 8, 9, 10}},
		{name: "last", current: 10, total: 10, want: []int{6, 7, 8, 9, 10}, nextDisabled: true},
		{name: "short list", current: 2, total: 3, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewControls(tt.current, tt.total)
			if c.Hidden {
				t.Fatal("controls unexpectedly hidden")
			}
			if got := pageNumbers(c); !slices.Equal(got, tt.want) {
				t.Errorf("pages = %v, want %v", got, tt.want)
			}
			if c.PrevDisabled != tt.prevDisabled || c.NextDisabled != tt.nextDisabled {
				t.Errorf("prev/next disabled = %v/%v, want %v/%v",
					c.PrevDisabled, c.NextDisabled, tt.prevDisabled, tt.nextDisabled)
			}
			for _, p := range c.Pages {
				if p.Active != (p.Number == tt.current) {
					t.Errorf("page %d active = %v", p.Number, p.Active)
				}
			}
		})
	}
}

func TestNewControls_HiddenForSinglePage(t *testing.T) {
	c := NewControls(1, 1)
	if !c.Hidden {
		t.Error("expected controls hidden for a single page")
	}
	if len(c.Pages) != 0 {
		t.Errorf("pages = %v, want none", pageNumbers(c))
	}
}

func TestRender_Rows(t *testing.T) {
	target := "https://example.com/new"
	long := "https://example.com/" + strings.Repeat("p", 120)

	rows := Render([]model.CheckResult{
		{URL: "https://example.com/old", StatusCode: model.Code(301), StatusMessage: "Moved", IsRedirect: true, RedirectURL: &target},
		{URL: "https://example.com/x", StatusCode: model.Code(302), IsRedirect: true},
		{URL: long, StatusCode: model.RawCode("Timeout"), StatusMessage: "Error: timeout"},
	})

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if !rows[0].HasRedirect() || rows[0].RedirectURL != target {
		t.Errorf("row 0 redirect = %q", rows[0].RedirectURL)
	}
	if rows[1].HasRedirect() {
		t.Error("row 1 without redirect_url should not link")
	}
	if rows[2].Class != "error" {
		t.Errorf("row 2 class = %q, want error", rows[2].Class)
	}
	if rows[2].URL != long {
		t.Error("full URL must be preserved")
	}
	if rows[2].DisplayURL == long {
		t.Error("long URL should be truncated for display")
	}
}
