package services

import (
	"encoding/json"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/mwhitfield/horizon/internal/lifetime"
)

// projectionCache memoizes cash-flow projections by scenario fingerprint so
// interactive callers re-requesting an unchanged projection do not pay for
// a recompute. Entries are whole results; when the cache fills it is
// cleared rather than evicted entry by entry, which is cheap and good
// enough for a cache of recomputable values.
type projectionCache struct {
	mu      sync.Mutex
	entries map[string]lifetime.Result
	max     int
}

func newProjectionCache(max int) *projectionCache {
	if max < 1 {
		max = 1
	}
	return &projectionCache{
		entries: make(map[string]lifetime.Result),
		max:     max,
	}
}

// fingerprint derives a stable cache key from the canonical JSON encoding
// of the inputs. Marshalling can only fail on unsupported types, which the
// snapshot does not contain; a failure falls back to an uncacheable key.
func fingerprint(inputs ...interface{}) string {
	h := fnv.New64a()
	for _, in := range inputs {
		raw, err := json.Marshal(in)
		if err != nil {
			return ""
		}
		h.Write(raw)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func (c *projectionCache) get(key string) (lifetime.Result, bool) {
	if key == "" {
		return lifetime.Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *projectionCache) put(key string, r lifetime.Result) {
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.entries = make(map[string]lifetime.Result)
	}
	c.entries[key] = r
}
