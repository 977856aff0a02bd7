package script

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/dev0b1/selah-sub001/internal/metrics"
)

// cachingTextGenerator wraps a TextGenerator and caches raw model
// responses keyed by prompt hash. Only text is cached here; generated
// audio is never cached anywhere in the pipeline.
type cachingTextGenerator struct {
	next   TextGenerator
	cache  *cache.Cache
	hits   int64
	misses int64
}

// NewCachingTextGenerator creates a caching decorator around next.
func NewCachingTextGenerator(next TextGenerator, defaultExpiration, cleanupInterval time.Duration) TextGenerator {
	return &cachingTextGenerator{
		next:  next,
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

// GenerateText returns the cached response for an identical prompt, or
// forwards to the wrapped generator and caches the result.
func (c *cachingTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	if cached, found := c.cache.Get(key); found {
		atomic.AddInt64(&c.hits, 1)
		metrics.Global.RecordCacheHit()
		logrus.WithField("key", key).Debug("Script cache hit")
		return cached.(string), nil
	}

	atomic.AddInt64(&c.misses, 1)
	metrics.Global.RecordCacheMiss()
	logrus.WithField("key", key).Debug("Script cache miss")

	response, err := c.next.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.cache.Set(key, response, cache.DefaultExpiration)
	return response, nil
}

// cacheKey hashes the full prompt; the prompt embeds both the user text
// and the mood, so identical keys mean identical requests.
func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
