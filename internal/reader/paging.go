package reader

import (
	"strings"

	"newsfeed/internal/services/news"
)

// pageButtons is how many page numbers are offered at once.
const pageButtons = 5

const wordsPerMinute = 200

// TotalPages is ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// PageWindow returns up to five page numbers centred on current, shifted to
// stay inside 1..total.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var start int
	switch {
	case total <= pageButtons:
		start = 1
	case current <= 3:
		start = 1
	case current >= total-2:
		start = total - pageButtons + 1
	default:
		start = current - 2
	}

	n := pageButtons
	if total < n {
		n = total
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// ReadingTime estimates minutes to read the article's body text.
func ReadingTime(a news.Article) int {
	words := len(strings.Fields(a.Text()))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
