package ui

import (
	"newsfeed/internal/reader"
	"newsfeed/internal/services/news"
)

type dashboardLoadedMsg struct {
	seq  uint64
	dash *reader.Dashboard
	err  error
}

type newsLoadedMsg struct {
	seq  uint64
	resp *news.Response
	err  error
}

type stocksLoadedMsg struct {
	resp *news.Response
	err  error
}

// searchMsg carries a debounced search query.
type searchMsg struct {
	query string
}

type bookmarkToggledMsg struct {
	url string
	on  bool
	err error
}

type openedMsg struct {
	err error
}

type themeChangedMsg struct {
	dark bool
	err  error
}
