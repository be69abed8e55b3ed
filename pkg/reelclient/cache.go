package reelclient

import (
	"slices"
	"sync"
)

// UndoToken is the pre-mutation snapshot of one video, returned by Apply and
// consumed by Restore.
type UndoToken struct {
	videoID  string
	snapshot Video
}

// VideoID is the video the token restores.
func (t UndoToken) VideoID() string { return t.videoID }

// Cache holds the client's copy of the feed. It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	videos map[string]Video
	order  []string
}

func NewCache() *Cache {
	return &Cache{videos: make(map[string]Video)}
}

// Get returns a copy of the cached video.
func (c *Cache) Get(videoID string) (Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.videos[videoID]
	if !ok {
		return Video{}, false
	}
	return v.clone(), true
}

// List returns copies of all cached videos in feed order.
func (c *Cache) List() []Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Video, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.videos[id].clone())
	}
	return out
}

// Apply snapshots the video, runs mutate on a copy and stores the result.
// It returns false when the video is not cached.
func (c *Cache) Apply(videoID string, mutate func(*Video)) (UndoToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.videos[videoID]
	if !ok {
		return UndoToken{}, false
	}
	token := UndoToken{videoID: videoID, snapshot: v.clone()}
	next := v.clone()
	mutate(&next)
	c.videos[videoID] = next
	return token, true
}

// Restore puts the token's snapshot back. It returns false when the video is
// not cached.
func (c *Cache) Restore(token UndoToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.videos[token.videoID]; !ok {
		return false
	}
	c.videos[token.videoID] = token.snapshot.clone()
	return true
}

// Refresh merges the authoritative feed page into the cache. The page's
// videos come first in page order. Cached videos missing from the page, such
// as ones loaded from later pages, follow in their previous order with their
// cached state. Videos for which keep returns true retain their cached state.
func (c *Cache) Refresh(videos []Video, keep func(videoID string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]Video, len(videos))
	order := make([]string, 0, len(videos))
	for _, v := range videos {
		if _, dup := next[v.ID]; dup {
			continue
		}
		if keep != nil && keep(v.ID) {
			if cached, ok := c.videos[v.ID]; ok {
				next[v.ID] = cached
				order = append(order, v.ID)
				continue
			}
		}
		next[v.ID] = v.clone()
		order = append(order, v.ID)
	}
	for _, id := range c.order {
		if _, onPage := next[id]; onPage {
			continue
		}
		next[id] = c.videos[id]
		order = append(order, id)
	}
	c.videos = next
	c.order = slices.Clip(order)
}
