package library

import (
	"context"
	"sync"

	"newsfeed/internal/clock"
	"newsfeed/internal/services/news"
	"newsfeed/internal/store"
)

// MaxRecentlyViewed bounds the recently viewed list.
const MaxRecentlyViewed = 20

// RecentlyViewed is a most-recent-first list of opened articles.
type RecentlyViewed struct {
	mu    sync.Mutex
	store store.Store
	clock clock.Clock
	items []news.Article
}

func LoadRecentlyViewed(ctx context.Context, s store.Store, clk clock.Clock) (*RecentlyViewed, error) {
	if clk == nil {
		clk = clock.New()
	}
	items, err := load(ctx, s, store.RecentlyViewedKey)
	if err != nil {
		return nil, err
	}
	items = dedupe(items)
	if len(items) > MaxRecentlyViewed {
		items = items[:MaxRecentlyViewed]
	}
	return &RecentlyViewed{store: s, clock: clk, items: items}, nil
}

// Record moves the article to the front, stamped with the view time. The
// oldest entries beyond MaxRecentlyViewed are dropped.
func (r *RecentlyViewed) Record(ctx context.Context, a news.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now().UTC()
	a.ViewedAt = &now

	items := make([]news.Article, 0, len(r.items)+1)
	items = append(items, a)
	for _, existing := range r.items {
		if existing.URL != a.URL {
			items = append(items, existing)
		}
	}
	if len(items) > MaxRecentlyViewed {
		items = items[:MaxRecentlyViewed]
	}

	if err := save(ctx, r.store, store.RecentlyViewedKey, items); err != nil {
		return err
	}
	r.items = items
	return nil
}

// List returns the entries, most recent first.
func (r *RecentlyViewed) List() []news.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.items)
}

func (r *RecentlyViewed) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := save(ctx, r.store, store.RecentlyViewedKey, nil); err != nil {
		return err
	}
	r.items = nil
	return nil
}
