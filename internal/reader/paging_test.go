package reader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"newsfeed/internal/reader"
	"newsfeed/internal/services/news"
)

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, reader.TotalPages(0, 12))
	require.Equal(t, 1, reader.TotalPages(12, 12))
	require.Equal(t, 2, reader.TotalPages(13, 12))
	require.Equal(t, 0, reader.TotalPages(10, 0))
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 3, []int{1, 2, 3}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{4, 10, []int{2, 3, 4, 5, 6}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{42, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, reader.PageWindow(tc.current, tc.total), "page %d of %d", tc.current, tc.total)
	}
}

func TestReadingTime(t *testing.T) {
	body := strings.Repeat("word ", 401)
	desc := "short description"

	require.Equal(t, 3, reader.ReadingTime(news.Article{Title: "t", Content: &body}))
	require.Equal(t, 1, reader.ReadingTime(news.Article{Title: "t", Description: &desc}))
	require.Equal(t, 0, reader.ReadingTime(news.Article{}))
}
