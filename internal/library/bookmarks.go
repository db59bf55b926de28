// Package library keeps the reader's local article collections: bookmarks,
// recently viewed articles, and display preferences. Every change is written
// through to the store before it becomes visible.
package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"newsfeed/internal/services/news"
	"newsfeed/internal/store"
)

// Bookmarks is an insertion-ordered set of articles keyed by URL.
type Bookmarks struct {
	mu    sync.Mutex
	store store.Store
	items []news.Article
}

// LoadBookmarks reads saved bookmarks. Unreadable data starts an empty list.
func LoadBookmarks(ctx context.Context, s store.Store) (*Bookmarks, error) {
	items, err := load(ctx, s, store.BookmarksKey)
	if err != nil {
		return nil, err
	}
	return &Bookmarks{store: s, items: dedupe(items)}, nil
}

// List returns the bookmarks, oldest first.
func (b *Bookmarks) List() []news.Article {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clone(b.items)
}

func (b *Bookmarks) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Bookmarks) Contains(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return indexOf(b.items, url) >= 0
}

// Toggle removes the article if bookmarked, otherwise appends it. It reports
// whether the article is bookmarked afterwards.
func (b *Bookmarks) Toggle(ctx context.Context, a news.Article) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i := indexOf(b.items, a.URL); i >= 0 {
		return false, b.commit(ctx, remove(b.items, i))
	}
	return true, b.commit(ctx, append(clone(b.items), stripViewed(a)))
}

// Add appends the article unless it is already bookmarked.
func (b *Bookmarks) Add(ctx context.Context, a news.Article) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if indexOf(b.items, a.URL) >= 0 {
		return false, nil
	}
	return true, b.commit(ctx, append(clone(b.items), stripViewed(a)))
}

// Remove deletes the bookmark with the given URL.
func (b *Bookmarks) Remove(ctx context.Context, url string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := indexOf(b.items, url)
	if i < 0 {
		return false, nil
	}
	return true, b.commit(ctx, remove(b.items, i))
}

func (b *Bookmarks) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commit(ctx, nil)
}

func (b *Bookmarks) commit(ctx context.Context, items []news.Article) error {
	if err := save(ctx, b.store, store.BookmarksKey, items); err != nil {
		return err
	}
	b.items = items
	return nil
}

func load(ctx context.Context, s store.Store, key string) ([]news.Article, error) {
	var items []news.Article
	found, err := store.GetJSON(ctx, s, key, &items)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable saved articles")
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	return items, nil
}

func save(ctx context.Context, s store.Store, key string, items []news.Article) error {
	if items == nil {
		items = []news.Article{}
	}
	if err := store.SetJSON(ctx, s, key, items); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func indexOf(items []news.Article, url string) int {
	for i := range items {
		if items[i].URL == url {
			return i
		}
	}
	return -1
}

func remove(items []news.Article, i int) []news.Article {
	out := make([]news.Article, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func clone(items []news.Article) []news.Article {
	if items == nil {
		return nil
	}
	return append([]news.Article(nil), items...)
}

// dedupe keeps the first occurrence of each URL.
func dedupe(items []news.Article) []news.Article {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, a := range items {
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
	}
	return out
}

func stripViewed(a news.Article) news.Article {
	a.ViewedAt = nil
	return a
}
