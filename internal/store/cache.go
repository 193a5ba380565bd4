package store

import (
	"sort"
	"strconv"
	"strings"
)

// Cache is the set of detail URLs that produced a saved record.
// A URL in the cache is never fetched again.
type Cache struct {
	urls map[string]struct{}
}

// NewCache creates a Cache holding urls.
func NewCache(urls ...string) *Cache {
	c := &Cache{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		c.Add(u)
	}
	return c
}

// Add inserts url. Adding a URL twice is a no-op.
func (c *Cache) Add(url string) {
	c.urls[url] = struct{}{}
}

// Has reports whether url is cached.
func (c *Cache) Has(url string) bool {
	_, ok := c.urls[url]
	return ok
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	return len(c.urls)
}

// Sorted returns the URLs ordered by their trailing numeric ID.
// URLs whose last path segment is not a number sort after all numeric
// ones, in lexical order.
func (c *Cache) Sorted() []string {
	out := make([]string, 0, len(c.urls))
	for u := range c.urls {
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		a, aok := TrailingID(out[i])
		b, bok := TrailingID(out[j])
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return out[i] < out[j]
		case aok != bok:
			return aok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

// TrailingID parses the last path segment of url as a partner ID.
func TrailingID(url string) (int, bool) {
	seg := url[strings.LastIndex(url, "/")+1:]
	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return id, true
}
