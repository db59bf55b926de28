package news

import "time"

// Source identifies the publisher of an article.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is a single upstream article. URL identifies it within a result set.
type Article struct {
	Source      Source  `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`

	// ViewedAt is stamped when the article enters the recently-viewed list.
	ViewedAt *time.Time `json:"viewedAt,omitempty"`
}

// Published parses PublishedAt.
func (a Article) Published() (time.Time, error) {
	return time.Parse(time.RFC3339, a.PublishedAt)
}

// Text returns the longest available body text: content, then description,
// then title.
func (a Article) Text() string {
	if a.Content != nil && *a.Content != "" {
		return *a.Content
	}
	if a.Description != nil && *a.Description != "" {
		return *a.Description
	}
	return a.Title
}

// Response is a validated upstream payload.
type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}
