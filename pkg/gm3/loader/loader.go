// Package loader loads 3GM shapes from disk, optionally through an LRU
// cache for repeated lookups.
package loader

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

// Load reads and decodes a 3GM file.
func Load(path string) (*gm3.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3GM file: %w", err)
	}
	return gm3.Decode(data)
}

// Cache decodes shapes through a path-keyed LRU cache. Cached shapes are
// shared; callers must treat them as read-only.
type Cache struct {
	dec *gm3.Decoder
	lru *lru.Cache[string, *gm3.Shape]
}

// NewCache creates a cache holding up to size decoded shapes.
func NewCache(size int, opts ...gm3.Option) (*Cache, error) {
	c, err := lru.New[string, *gm3.Shape](size)
	if err != nil {
		return nil, fmt.Errorf("creating shape cache: %w", err)
	}
	return &Cache{dec: gm3.NewDecoder(opts...), lru: c}, nil
}

// Load returns the cached shape for path, decoding on miss.
func (c *Cache) Load(path string) (*gm3.Shape, error) {
	if shape, ok := c.lru.Get(path); ok {
		return shape, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3GM file: %w", err)
	}
	shape, err := c.dec.Decode(data)
	if err != nil {
		return nil, err
	}
	c.lru.Add(path, shape)
	return shape, nil
}

// Len is the number of cached shapes.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every cached shape.
func (c *Cache) Purge() { c.lru.Purge() }
