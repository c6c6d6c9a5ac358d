package texture

import (
	"sync"

	"softgpu/internal/logging"
)

// Resolver resolves a texture name to a decoded texture.
type Resolver interface {
	Resolve(name string) *Texture
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Texture
	index *Index
}

// NewCache creates a texture cache backed by index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*Texture),
		index: index,
	}
}

// Resolve loads and caches a texture by name. It returns nil if the name is
// not indexed or the file fails to decode; failures are cached too.
func (c *Cache) Resolve(name string) *Texture {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	c.mu.RLock()
	if tex, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return tex
	}
	c.mu.RUnlock()

	tex, err := Load(path)
	if err != nil {
		logging.Logger().Warn("texture load failed", "path", path, "err", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = tex
	return tex
}
