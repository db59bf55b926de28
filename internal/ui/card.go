package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"newsfeed/internal/reader"
	"newsfeed/internal/services/news"
)

const descriptionLimit = 200

// CardOptions controls how a single article is drawn.
type CardOptions struct {
	Width      int
	Selected   bool
	Bookmarked bool
}

// RenderCard draws one article as a bordered card.
func RenderCard(th Theme, a news.Article, opts CardOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	title := a.Title
	if opts.Bookmarked {
		title = th.Bookmark.Render("★ ") + title
	}

	meta := []string{th.Source.Render(a.Source.Name)}
	if date := formatDate(a.PublishedAt); date != "" {
		meta = append(meta, date)
	}
	if mins := reader.ReadingTime(a); mins > 0 {
		meta = append(meta, fmt.Sprintf("%d min read", mins))
	}
	if a.Author != nil && *a.Author != "" {
		meta = append(meta, "by "+truncateStr(*a.Author, 40))
	}

	lines := []string{
		th.Title.Width(inner).Render(title),
		th.Meta.Render(strings.Join(meta, " · ")),
	}
	if a.Description != nil && *a.Description != "" {
		lines = append(lines, th.Body.Width(inner).Render(truncateStr(*a.Description, descriptionLimit)))
	}
	lines = append(lines, th.Link.Render(truncateStr(a.URL, inner)))

	style := th.Card
	if opts.Selected {
		style = th.CardActive
	}
	return style.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderPagination draws the page buttons with the current page highlighted.
func RenderPagination(th Theme, current, totalPages int) string {
	pages := reader.PageWindow(current, totalPages)
	if len(pages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(pages)+2)
	parts = append(parts, th.Meta.Render("‹"))
	for _, p := range pages {
		label := fmt.Sprintf("%d", p)
		if p == current {
			parts = append(parts, th.PageActive.Render(label))
		} else {
			parts = append(parts, th.Page.Render(label))
		}
	}
	parts = append(parts, th.Meta.Render("›"))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...) +
		th.Meta.Render(fmt.Sprintf("  page %d of %d", current, totalPages))
}

// RenderList draws articles one card after another.
func RenderList(th Theme, articles []news.Article, width int, bookmarked func(string) bool) string {
	if len(articles) == 0 {
		return th.Meta.Render("No articles found.")
	}
	cards := make([]string, len(articles))
	for i, a := range articles {
		cards[i] = RenderCard(th, a, CardOptions{
			Width:      width,
			Bookmarked: bookmarked != nil && bookmarked(a.URL),
		})
	}
	return strings.Join(cards, "\n")
}

func formatDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ""
	}
	return t.Local().Format("Jan 2, 2006")
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
