package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/clock"
	"newsfeed/internal/library"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/reader"
	"newsfeed/internal/services/news"
	"newsfeed/internal/store"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type fixture struct {
	app    *App
	clk    *clock.Fake
	marks  *library.Bookmarks
	recent *library.RecentlyViewed
	prefs  *library.Preferences
	opened []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		title := "Headline " + q.Get("category")
		if s := q.Get("q"); s != "" {
			title = "Result " + s
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","totalResults":30,"articles":[{"title":%q,"url":"https://news.test/%s"}]}`,
			title, q.Get("page"))
	}))
	t.Cleanup(srv.Close)

	clk := clock.NewFake(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	client, err := reader.NewClient(reader.Options{
		ProxyURL: srv.URL + "/api/v1/news",
		Limiter:  ratelimit.New(100, 5*time.Second, clk),
		Clock:    clk,
	})
	require.NoError(t, err)

	ctx := context.Background()
	s := store.NewMemory()
	marks, err := library.LoadBookmarks(ctx, s)
	require.NoError(t, err)
	recent, err := library.LoadRecentlyViewed(ctx, s, clk)
	require.NoError(t, err)

	f := &fixture{clk: clk, marks: marks, recent: recent, prefs: library.NewPreferences(s)}
	f.app = NewApp(Options{
		Client:      client,
		Bookmarks:   marks,
		Recent:      recent,
		Preferences: f.prefs,
		Clock:       clk,
		Open: func(u string) error {
			f.opened = append(f.opened, u)
			return nil
		},
	})
	return f
}

func (f *fixture) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.app.Update(k)
	}
	return cmd
}

func (f *fixture) pendingSearch() (string, bool) {
	select {
	case q := <-f.app.searches:
		return q, true
	default:
		return "", false
	}
}

func TestDashboardLoad(t *testing.T) {
	f := newFixture(t)

	msg := f.app.loadDashboardCmd()()
	f.app.Update(msg)

	require.False(t, f.app.loading)
	require.Equal(t, "Headline general", f.app.articles[0].Title)
	require.Equal(t, 30, f.app.total)
	require.Len(t, f.app.stocks, 1)
	require.Contains(t, f.app.View(), "Headline general")
}

func TestSearchIsDebounced(t *testing.T) {
	f := newFixture(t)

	f.press(runes("/"))
	require.Equal(t, modeSearch, f.app.mode)

	f.press(runes("g"))
	f.clk.Advance(200 * time.Millisecond)
	f.press(runes("o"))

	f.clk.Advance(499 * time.Millisecond)
	_, ok := f.pendingSearch()
	require.False(t, ok, "no search inside the quiet window")

	f.clk.Advance(time.Millisecond)
	q, ok := f.pendingSearch()
	require.True(t, ok)
	require.Equal(t, "go", q)
	_, ok = f.pendingSearch()
	require.False(t, ok, "only one search fires")

	f.app.category = "sports"
	f.app.page = 3
	f.app.Update(searchMsg{query: q})
	require.Equal(t, "go", f.app.search)
	require.Equal(t, 1, f.app.page)
	require.Equal(t, "general", f.app.category)

	f.app.Update(f.app.loadNewsCmd()())
	require.Equal(t, "Result go", f.app.articles[0].Title)
}

func TestSearchEnterSkipsDebounce(t *testing.T) {
	f := newFixture(t)

	f.press(runes("/"), runes("a"), runes("i"))
	cmd := f.press(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, modeNormal, f.app.mode)
	require.Equal(t, "ai", f.app.search)

	f.clk.Advance(time.Second)
	_, ok := f.pendingSearch()
	require.False(t, ok)
}

func TestStaleResponsesAreIgnored(t *testing.T) {
	f := newFixture(t)

	first := f.app.loadNewsCmd()
	f.app.page = 2
	second := f.app.loadNewsCmd()

	f.app.Update(first())
	require.Empty(t, f.app.articles)
	f.app.Update(newsLoadedMsg{seq: 1, resp: &news.Response{Articles: []news.Article{{Title: "stale", URL: "s"}}}})
	require.Empty(t, f.app.articles)

	f.app.Update(second())
	require.Equal(t, "https://news.test/2", f.app.articles[0].URL)
}

func TestCategoryChangeClearsSearch(t *testing.T) {
	f := newFixture(t)
	f.app.search = "elections"
	f.app.page = 4

	cmd := f.press(runes("c"))
	require.NotNil(t, cmd)
	require.Empty(t, f.app.search)
	require.Equal(t, "business", f.app.category)
	require.Equal(t, 1, f.app.page)

	f.app.Update(cmd())
	require.Equal(t, "Headline business", f.app.articles[0].Title)
}

func TestPagingIsThrottled(t *testing.T) {
	f := newFixture(t)
	f.app.Update(f.app.loadNewsCmd()())
	require.Equal(t, 30, f.app.total)

	require.NotNil(t, f.press(runes("l")))
	require.Equal(t, 2, f.app.page)

	require.Nil(t, f.press(runes("l")))
	require.Equal(t, 2, f.app.page)

	f.clk.Advance(pageInterval)
	require.NotNil(t, f.press(runes("l")))
	require.Equal(t, 3, f.app.page)

	f.clk.Advance(pageInterval)
	require.Nil(t, f.press(runes("l")), "no page past the last")
	require.Equal(t, 3, f.app.page)
}

func TestBookmarkAndOpen(t *testing.T) {
	f := newFixture(t)
	f.app.Update(f.app.loadNewsCmd()())

	cmd := f.press(runes("b"))
	f.app.Update(cmd())
	require.True(t, f.marks.Contains("https://news.test/1"))
	require.Equal(t, "Bookmarked", f.app.status)

	cmd = f.press(tea.KeyMsg{Type: tea.KeyEnter})
	f.app.Update(cmd())
	require.Equal(t, []string{"https://news.test/1"}, f.opened)
	require.Len(t, f.recent.List(), 1)

	f.press(tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, viewBookmarks, f.app.view)
	require.Contains(t, f.app.View(), "Headline general")
}

func TestToggleTheme(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.app.theme.Dark)

	cmd := f.press(runes("d"))
	f.app.Update(cmd())
	require.True(t, f.app.theme.Dark)

	dark, err := f.prefs.DarkMode(context.Background())
	require.NoError(t, err)
	require.True(t, dark)
}

func TestErrorsAreDescribed(t *testing.T) {
	f := newFixture(t)
	seq := f.app.seq

	f.app.Update(newsLoadedMsg{seq: seq, err: context.Canceled})
	require.Empty(t, f.app.err)

	f.app.Update(newsLoadedMsg{seq: seq, err: fmt.Errorf("Failed to fetch")})
	require.Equal(t, "Please check your internet connection and try again.", f.app.err)
	require.True(t, strings.Contains(f.app.View(), f.app.err))
}

func TestRenderCard(t *testing.T) {
	desc := "A short description."
	a := news.Article{
		Title:       "Rates hold",
		Description: &desc,
		URL:         "https://news.test/rates",
		Source:      news.Source{Name: "Reuters"},
		PublishedAt: "2024-01-01T12:00:00Z",
	}

	out := RenderCard(ThemeFor(false), a, CardOptions{Width: 80, Bookmarked: true})
	require.Contains(t, out, "Rates hold")
	require.Contains(t, out, "Reuters")
	require.Contains(t, out, "1 min read")
	require.Contains(t, out, "★")
	require.Contains(t, out, "https://news.test/rates")
}

func TestRenderPagination(t *testing.T) {
	out := RenderPagination(ThemeFor(true), 7, 10)
	for _, p := range []string{"5", "6", "7", "8", "9"} {
		require.Contains(t, out, p)
	}
	require.Contains(t, out, "page 7 of 10")
	require.Empty(t, RenderPagination(ThemeFor(true), 1, 0))
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
		{"日本語テスト", 5, "日本..."},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, truncateStr(tt.input, tt.n), "truncateStr(%q, %d)", tt.input, tt.n)
	}
}
