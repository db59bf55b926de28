package store

// Keys under which reader state is persisted.
const (
	BookmarksKey      = "bookmarkedArticles"
	RecentlyViewedKey = "recentlyViewed"
	DarkModeKey       = "darkMode"
)

// DefaultRedisPrefix namespaces reader keys in a shared Redis.
const DefaultRedisPrefix = "newsfeed:reader:"
