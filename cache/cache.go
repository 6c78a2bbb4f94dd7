// Package cache memoizes HTTP responses used by the resolution pipeline,
// keyed by request fingerprint, with a per-entry TTL and single-flight
// coalescing of concurrent misses for the same fingerprint.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fingerprint identifies a cacheable request by method, URL, a
// canonicalized header set, and body, per the resolution pipeline's
// cache-key contract.
type Fingerprint struct {
	Method  string
	URL     string
	Headers string
	Body    string
}

// NewFingerprint builds a Fingerprint with headers canonicalized by sorted
// key so that header ordering never causes spurious cache misses.
func NewFingerprint(method, url string, headers map[string]string, body string) Fingerprint {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strings.ToLower(k))
		b.WriteByte(':')
		b.WriteString(headers[k])
		b.WriteByte(';')
	}

	return Fingerprint{
		Method:  strings.ToUpper(method),
		URL:     url,
		Headers: b.String(),
		Body:    body,
	}
}

func (f Fingerprint) key() string {
	h := sha256.New()
	h.Write([]byte(f.Method))
	h.Write([]byte{0})
	h.Write([]byte(f.URL))
	h.Write([]byte{0})
	h.Write([]byte(f.Headers))
	h.Write([]byte{0})
	h.Write([]byte(f.Body))
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	body      []byte
	expiresAt time.Time
}

// Cache memoizes fetch results per Fingerprint. The zero value is not
// usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: map[string]entry{}}
}

// Fetch is the function signature used to populate the cache on a miss.
type Fetch func(ctx context.Context) ([]byte, error)

// GetOrFetch returns the cached body for fp if present and unexpired;
// otherwise it calls fetch, storing the result for ttl (a non-positive ttl
// disables caching for this call). Concurrent GetOrFetch calls for the same
// fingerprint share a single in-flight fetch.
func (c *Cache) GetOrFetch(ctx context.Context, fp Fingerprint, ttl time.Duration, fetch Fetch) ([]byte, error) {
	key := fp.key()

	if ttl > 0 {
		if body, ok := c.lookup(key); ok {
			return body, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another goroutine's concurrent fetch may have just
		// populated the entry while we were queueing on singleflight.
		if ttl > 0 {
			if body, ok := c.lookup(key); ok {
				return body, nil
			}
		}
		body, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if ttl > 0 {
			c.mu.Lock()
			c.entries[key] = entry{body: body, expiresAt: time.Now().Add(ttl)}
			c.mu.Unlock()
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// lookup performs a TTL-checked read, lazily evicting an expired entry.
func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Len reports the number of live (not necessarily unexpired) entries, for
// tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
