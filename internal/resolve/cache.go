package resolve

import (
	"fmt"
	"strings"
	"sync"

	"github.com/guardline-dev/guardline/internal/model"
)

// Cache memoizes structural scope resolutions for one document. It is
// an explicit object owned by the caller, never a process-wide
// singleton. Edits invalidate only the entries whose resolved range
// overlaps the changed region; surviving entries past the edit shift
// by the net line delta.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Boundary
}

// NewCache returns an empty scope cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Boundary)}
}

func cacheKey(tag *model.GuardTag) string {
	return fmt.Sprintf("%d|%s|%s|%s",
		tag.Line, tag.Scope,
		strings.Join(tag.AddScopes, ","),
		strings.Join(tag.RemoveScopes, ","))
}

// Get returns the memoized boundary for a tag's (line, keyword,
// modifiers) key.
func (c *Cache) Get(tag *model.GuardTag) (Boundary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[cacheKey(tag)]
	return b, ok
}

// Put memoizes a resolution.
func (c *Cache) Put(tag *model.GuardTag, b Boundary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(tag)] = b
}

// InvalidateOverlap drops entries whose resolved range overlaps
// [start, end]. Partial invalidation, not a blanket flush: large files
// keep their untouched resolutions.
func (c *Cache) InvalidateOverlap(start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, b := range c.entries {
		if b.Start <= end && start <= b.End {
			delete(c.entries, key)
		}
	}
}

// ShiftAfter moves entries that lie entirely after line by delta
// lines, rekeying them for their new tag positions.
func (c *Cache) ShiftAfter(line, delta int) {
	if delta == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	shifted := make(map[string]Boundary, len(c.entries))
	for key, b := range c.entries {
		if b.Start > line {
			b.Start += delta
			b.End += delta
			parts := strings.SplitN(key, "|", 2)
			var tagLine int
			fmt.Sscanf(parts[0], "%d", &tagLine)
			key = fmt.Sprintf("%d|%s", tagLine+delta, parts[1])
		}
		shifted[key] = b
	}
	c.entries = shifted
}

// Len reports the number of memoized resolutions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
