package text

import "container/list"

const defaultCacheSize = 2048

// measureCache is an LRU of text widths keyed by face and string.
// It is not safe for concurrent use; GGMeasurer guards it.
type measureCache struct {
	maxSize int
	entries map[string]*list.Element
	lru     *list.List // front = most recently used

	hits, misses uint64
}

type measureEntry struct {
	key   string
	width float64
}

func newMeasureCache(maxSize int) *measureCache {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &measureCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *measureCache) get(key string) (float64, bool) {
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		c.hits++
		return elem.Value.(*measureEntry).width, true
	}
	c.misses++
	return 0, false
}

func (c *measureCache) put(key string, width float64) {
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*measureEntry).width = width
		c.lru.MoveToFront(elem)
		return
	}
	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*measureEntry).key)
	}
	c.entries[key] = c.lru.PushFront(&measureEntry{key: key, width: width})
}

func (c *measureCache) len() int { return c.lru.Len() }
