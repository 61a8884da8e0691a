package report

// PageSize is the fixed number of rows per table page.
const PageSize = 100

// windowSize is the maximum number of page links shown at once.
const windowSize = 5

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage forces page into [1, TotalPages(n, size)].
func ClampPage(page, n, size int) int {
	return max(1, min(page, TotalPages(n, size)))
}

// Paginate returns the items of the given 1-based page and the total number
// of pages. page must already be within range; out-of-range pages yield an
// empty slice rather than a panic.
func Paginate[T any](items []T, page, size int) ([]T, int) {
	total := TotalPages(len(items), size)
	if page < 1 || page > total || size <= 0 {
		return nil, total
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	if start >= end {
		return nil, total
	}
	return items[start:end], total
}

// PageLink is a numbered link in the pagination control.
type PageLink struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// Controls describes the pagination bar for one page of results.
type Controls struct {
	Hidden       bool       `json:"hidden"`
	Current      int        `json:"current"`
	Total        int        `json:"total"`
	Pages        []PageLink `json:"pages"`
	PrevDisabled bool       `json:"prev_disabled"`
	NextDisabled bool       `json:"next_disabled"`
}

// Prev is the page the Previous control points at.
func (c Controls) Prev() int { return max(1, c.Current-1) }

// Next is the page the Next control points at.
func (c Controls) Next() int { return min(c.Total, c.Current+1) }

// NewControls builds a window of at most five page links around current.
// The bar is hidden when there is only one page.
func NewControls(current, total int) Controls {
	total = max(1, total)
	current = max(1, min(current, total))

	c := Controls{
		Current:      current,
		Total:        total,
		Hidden:       total <= 1,
		PrevDisabled: current == 1,
		NextDisabled: current == total,
	}
	if c.Hidden {
		return c
	}

	start := max(1, current-2)
	end := min(total, start+windowSize-1)
	if end-start < windowSize-1 {
		start = max(1, end-windowSize+1)
	}

	for i := start; i <= end; i++ {
		c.Pages = append(c.Pages, PageLink{Number: i, Active: i == current})
	}
	return c
}
