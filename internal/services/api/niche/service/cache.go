package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"nichelens/internal/services/api/niche/domain"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// Cached decorates a ServicePort with a TTL'd LRU over validation results.
// Analysis runs are deterministic against a corpus snapshot, so a short TTL
// trades a little staleness for skipping full corpus scans on repeat queries.
// Off by default; enabled via config in main
type Cached struct {
	inner domain.ServicePort
	cache *lru.LRU[string, domain.ValidateResp]
}

// NewCached wraps inner with an LRU of the given size and TTL. Non-positive
// values take defaults
func NewCached(inner domain.ServicePort, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cached{
		inner: inner,
		cache: lru.NewLRU[string, domain.ValidateResp](size, nil, ttl),
	}
}

// Validate serves repeat queries from cache. RunID is carried over from the
// cached run so results remain traceable to the scan that produced them
func (c *Cached) Validate(ctx context.Context, in domain.ValidateInput) (domain.ValidateResp, error) {
	key := cacheKey(in)
	if hit, ok := c.cache.Get(key); ok {
		return hit, nil
	}
	out, err := c.inner.Validate(ctx, in)
	if err != nil {
		return domain.ValidateResp{}, err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Analyze is never cached; co-occurrence output is large and requested rarely
func (c *Cached) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.AnalyzeResp, error) {
	return c.inner.Analyze(ctx, in)
}

// cacheKey length-prefixes every variable-length field so delimiter
// characters inside names or seeds cannot alias two distinct inputs. Seeds
// are sorted first; order never changes the analysis
func cacheKey(in domain.ValidateInput) string {
	seeds := append([]string(nil), in.Seeds...)
	sort.Strings(seeds)

	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	field(in.NicheName)
	field(in.Geography)
	b.WriteString(strconv.Itoa(len(seeds)))
	b.WriteByte('#')
	for _, s := range seeds {
		field(s)
	}
	b.WriteString(strconv.Itoa(in.MaxLeads))
	return b.String()
}
