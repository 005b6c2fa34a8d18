package narrative

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CachedImageClient serves repeated illustration prompts from memory.
// Text generation always goes to the wrapped client.
type CachedImageClient struct {
	Client
	cache *cache.Cache
	ttl   time.Duration
}

// NewCachedImageClient wraps next with an image cache whose entries live for ttl.
func NewCachedImageClient(next Client, ttl time.Duration) *CachedImageClient {
	return &CachedImageClient{
		Client: next,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// GenerateImage returns a cached URL for prompt or asks the wrapped client.
// Only non-empty URLs are cached, so an absent image is retried next time.
func (c *CachedImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}

	url, err := c.Client.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	if url != "" {
		c.cache.Set(key, url, c.ttl)
	}
	return url, nil
}

// Len returns the number of cached illustrations.
func (c *CachedImageClient) Len() int {
	return c.cache.ItemCount()
}

func promptKey(prompt string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(prompt)).String()
}
