package charts

import (
	"bytes"
	"sync"
)

// maxTargets bounds how many rendered charts a Board keeps.
const maxTargets = 1024

// Chart is a rendered image bound to a target. Key identifies the data it
// was rendered from, so a new job yields a new chart.
type Chart struct {
	Key         string
	ContentType string

	mu   sync.RWMutex
	body []byte
}

// Bytes returns the encoded image, or nil once disposed.
func (c *Chart) Bytes() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.body
}

// Disposed reports whether the chart has been released.
func (c *Chart) Disposed() bool {
	return c.Bytes() == nil
}

// Dispose releases the image.
func (c *Chart) Dispose() {
	c.mu.Lock()
	c.body = nil
	c.mu.Unlock()
}

// Board owns the current chart of each target. Binding a new chart to a
// target disposes the one it replaces.
type Board struct {
	mu     sync.Mutex
	charts map[string]*Chart
	order  []string
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{charts: make(map[string]*Chart)}
}

// Current returns the chart bound to target.
func (b *Board) Current(target string) (*Chart, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.charts[target]
	return c, ok
}

// Render returns the chart bound to target when it was rendered for key,
// otherwise draws a new one with draw and binds it in place of the old one.
// The returned image stays valid after the chart is disposed.
func (b *Board) Render(target, key string, f Format, draw func(*bytes.Buffer) error) (*Chart, []byte, error) {
	if c, ok := b.Current(target); ok && c.Key == key {
		if body := c.Bytes(); body != nil {
			return c, body, nil
		}
	}

	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return nil, nil, err
	}

	body := buf.Bytes()
	c := &Chart{Key: key, ContentType: f.ContentType(), body: body}
	b.bind(target, c)
	return c, body, nil
}

// Release disposes and forgets the chart bound to target.
func (b *Board) Release(target string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.charts[target]; ok {
		c.Dispose()
		delete(b.charts, target)
		b.order = removeTarget(b.order, target)
	}
}

func (b *Board) bind(target string, c *Chart) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.charts[target]; ok {
		old.Dispose()
		b.order = removeTarget(b.order, target)
	}
	b.charts[target] = c
	b.order = append(b.order, target)

	for len(b.order) > maxTargets {
		oldest := b.order[0]
		b.order = b.order[1:]
		if stale, ok := b.charts[oldest]; ok {
			stale.Dispose()
			delete(b.charts, oldest)
		}
	}
}

func removeTarget(order []string, target string) []string {
	for i, t := range order {
		if t == target {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
