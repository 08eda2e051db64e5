package reddit

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheSize = 64

type cacheEntry struct {
	posts     []Post
	expiresAt time.Time
}

// cachedFetcher serves repeated queries for the same subreddit from memory
// until the entry expires. Only successful fetches are cached.
type cachedFetcher struct {
	next Fetcher
	ttl  time.Duration
	lru  *lru.Cache[string, cacheEntry]
	now  func() time.Time
}

// WithCache wraps f with an in-memory TTL cache keyed by normalized subreddit name.
func WithCache(f Fetcher, ttl time.Duration) Fetcher {
	l, _ := lru.New[string, cacheEntry](cacheSize) // only fails for size <= 0
	return &cachedFetcher{next: f, ttl: ttl, lru: l, now: time.Now}
}

func (c *cachedFetcher) Fetch(ctx context.Context, subreddit string) ([]Post, error) {
	name, err := NormalizeSubreddit(subreddit)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(name)

	now := c.now()

	if e, ok := c.lru.Get(key); ok {
		if now.Before(e.expiresAt) {
			return clonePosts(e.posts), nil
		}
		c.lru.Remove(key)
	}

	posts, err := c.next.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, cacheEntry{posts: clonePosts(posts), expiresAt: now.Add(c.ttl)})
	return posts, nil
}

func clonePosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}
