package server

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clarete/pas"
)

// grammarCache keeps compiled grammars keyed by the digest of their
// source.  Compiled grammars are immutable, so the same instance is
// shared by all the requests that send the same source.
type grammarCache struct {
	cfg     *pas.Config
	entries *lru.Cache[uint64, *cacheEntry]
	metrics *metrics
}

type cacheEntry struct {
	source  string
	grammar *pas.Grammar
}

func newGrammarCache(size int, cfg *pas.Config, m *metrics) (*grammarCache, error) {
	entries, err := lru.New[uint64, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &grammarCache{cfg: cfg, entries: entries, metrics: m}, nil
}

// Get returns the compiled version of `source`, compiling it if it
// isn't cached yet.  Grammars that fail to compile aren't cached.
func (c *grammarCache) Get(source string) (*pas.Grammar, error) {
	key := xxhash.Sum64String(source)
	if e, ok := c.entries.Get(key); ok && e.source == source {
		c.metrics.cache.WithLabelValues("hit").Inc()
		return e.grammar, nil
	}
	c.metrics.cache.WithLabelValues("miss").Inc()
	g, err := pas.Compile(source, c.cfg)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, &cacheEntry{source: source, grammar: g})
	return g, nil
}

func (c *grammarCache) Len() int { return c.entries.Len() }
