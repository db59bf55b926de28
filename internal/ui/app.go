package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newsfeed/internal/apperr"
	"newsfeed/internal/clock"
	"newsfeed/internal/library"
	"newsfeed/internal/reader"
	"newsfeed/internal/schedule"
	"newsfeed/internal/services/news"
)

type view int

const (
	viewNews view = iota
	viewStocks
	viewBookmarks
	viewRecent
)

var viewNames = []string{"News", "Markets", "Bookmarks", "Recent"}

type mode int

const (
	modeNormal mode = iota
	modeSearch
)

// pageInterval throttles page flips so held keys do not flood the proxy.
const pageInterval = 300 * time.Millisecond

// Options wires the browser to its collaborators.
type Options struct {
	Client      *reader.Client
	Bookmarks   *library.Bookmarks
	Recent      *library.RecentlyViewed
	Preferences *library.Preferences
	Clock       clock.Clock
	SearchDelay time.Duration
	// Open launches an article; defaults to reader.OpenURL.
	Open func(string) error
	Dark bool
	// Category is the initial headlines category.
	Category string
}

// App is the interactive news browser.
type App struct {
	client *reader.Client
	marks  *library.Bookmarks
	recent *library.RecentlyViewed
	prefs  *library.Preferences
	open   func(string) error
	theme  Theme

	searchInput textinput.Model
	spinner     spinner.Model
	debouncer   *schedule.Debouncer[string]
	pager       *schedule.Throttle
	searches    chan string

	view     view
	mode     mode
	category string
	search   string
	page     int

	articles []news.Article
	total    int
	stocks   []news.Article
	cursor   int

	// seq identifies the newest fetch; replies from older fetches are dropped.
	seq     uint64
	cancel  context.CancelFunc
	loading bool
	err     string
	status  string

	width  int
	height int
}

func NewApp(opts Options) *App {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	delay := opts.SearchDelay
	if delay <= 0 {
		delay = schedule.DefaultSearchDelay
	}
	open := opts.Open
	if open == nil {
		open = reader.OpenURL
	}
	category := opts.Category
	if category == "" {
		category = news.Categories[0]
	}

	ti := textinput.New()
	ti.Placeholder = "Search news..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	a := &App{
		client:      opts.Client,
		marks:       opts.Bookmarks,
		recent:      opts.Recent,
		prefs:       opts.Preferences,
		open:        open,
		searchInput: ti,
		spinner:     sp,
		pager:       schedule.NewThrottle(clk, pageInterval),
		searches:    make(chan string, 1),
		category:    category,
		page:        1,
		width:       80,
		height:      24,
	}
	a.debouncer = schedule.NewDebouncer(clk, delay, a.deliverSearch)
	a.applyTheme(opts.Dark)
	return a
}

func (a *App) applyTheme(dark bool) {
	a.theme = ThemeFor(dark)
	a.searchInput.Prompt = a.theme.Prompt.Render("/ ")
	a.spinner.Style = a.theme.Spinner
}

// deliverSearch runs on the debouncer's timer and hands the query to the
// program, replacing any query not yet consumed.
func (a *App) deliverSearch(q string) {
	for {
		select {
		case a.searches <- q:
			return
		default:
		}
		select {
		case <-a.searches:
		default:
		}
	}
}

func (a *App) waitForSearch() tea.Cmd {
	ch := a.searches
	return func() tea.Msg {
		return searchMsg{query: <-ch}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadDashboardCmd(), a.waitForSearch(), a.spinner.Tick)
}

func (a *App) params() reader.Params {
	return reader.Params{Category: a.category, Search: a.search, Page: a.page}
}

// begin cancels any fetch in flight and returns the context and sequence
// number for a new one.
func (a *App) begin() (context.Context, uint64) {
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.seq++
	a.loading = true
	a.err = ""
	return ctx, a.seq
}

func (a *App) loadDashboardCmd() tea.Cmd {
	ctx, seq := a.begin()
	client, p := a.client, a.params()
	return func() tea.Msg {
		d, err := client.FetchDashboard(ctx, p)
		return dashboardLoadedMsg{seq: seq, dash: d, err: err}
	}
}

func (a *App) loadNewsCmd() tea.Cmd {
	ctx, seq := a.begin()
	client, p := a.client, a.params()
	return func() tea.Msg {
		resp, err := client.FetchNews(ctx, p)
		return newsLoadedMsg{seq: seq, resp: resp, err: err}
	}
}

func (a *App) loadStocksCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		resp, err := client.StockNews(context.Background())
		return stocksLoadedMsg{resp: resp, err: err}
	}
}

func (a *App) toggleBookmarkCmd(art news.Article) tea.Cmd {
	marks := a.marks
	return func() tea.Msg {
		on, err := marks.Toggle(context.Background(), art)
		return bookmarkToggledMsg{url: art.URL, on: on, err: err}
	}
}

func (a *App) openCmd(art news.Article) tea.Cmd {
	open, recent := a.open, a.recent
	return func() tea.Msg {
		var rec reader.Recorder
		if recent != nil {
			rec = recent
		}
		return openedMsg{err: reader.OpenArticle(context.Background(), art, open, rec)}
	}
}

func (a *App) toggleThemeCmd() tea.Cmd {
	prefs := a.prefs
	dark := !a.theme.Dark
	return func() tea.Msg {
		if prefs == nil {
			return themeChangedMsg{dark: dark}
		}
		return themeChangedMsg{dark: dark, err: prefs.SetDarkMode(context.Background(), dark)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		a.status = ""
		return a.handleKey(msg)

	case dashboardLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.setNews(msg.dash.News)
		if msg.dash.Stocks != nil {
			a.stocks = msg.dash.Stocks.Articles
		}
		return a, nil

	case newsLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.setNews(msg.resp)
		return a, nil

	case stocksLoadedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.stocks = msg.resp.Articles
		a.clampCursor()
		return a, nil

	case searchMsg:
		return a, tea.Batch(a.applySearch(msg.query), a.waitForSearch())

	case bookmarkToggledMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		if msg.on {
			a.status = "Bookmarked"
		} else {
			a.status = "Bookmark removed"
		}
		a.clampCursor()
		return a, nil

	case openedMsg:
		if msg.err != nil {
			a.setError(msg.err)
		}
		return a, nil

	case themeChangedMsg:
		a.applyTheme(msg.dark)
		if msg.err != nil {
			a.setError(msg.err)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) setNews(resp *news.Response) {
	if resp == nil {
		return
	}
	a.articles = resp.Articles
	a.total = resp.TotalResults
	a.clampCursor()
}

func (a *App) setError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	a.err = apperr.Describe(err).Message
}

// applySearch starts a search for q from the first page. Searching resets the
// category; an empty query returns to headlines.
func (a *App) applySearch(q string) tea.Cmd {
	q = strings.TrimSpace(q)
	if q == a.search {
		return nil
	}
	a.search = q
	a.page = 1
	a.category = news.Categories[0]
	a.cursor = 0
	return a.loadNewsCmd()
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, a.quit()
	}
	if a.mode == modeSearch {
		return a.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, a.quit()
	case "tab":
		a.view = (a.view + 1) % view(len(viewNames))
		a.cursor = 0
		return a, nil
	case "shift+tab":
		a.view = (a.view + view(len(viewNames)) - 1) % view(len(viewNames))
		a.cursor = 0
		return a, nil
	case "j", "down":
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "l", "right":
		return a, a.flipPage(1)
	case "h", "left":
		return a, a.flipPage(-1)
	case "o", "enter":
		if art, ok := a.selected(); ok {
			return a, a.openCmd(art)
		}
		return a, nil
	case "b":
		if art, ok := a.selected(); ok && a.marks != nil {
			return a, a.toggleBookmarkCmd(art)
		}
		return a, nil
	case "d":
		return a, a.toggleThemeCmd()
	case "c":
		return a, a.nextCategory()
	case "/":
		a.mode = modeSearch
		a.view = viewNews
		a.searchInput.SetValue(a.search)
		return a, a.searchInput.Focus()
	case "r":
		if a.view == viewStocks {
			return a, a.loadStocksCmd()
		}
		return a, a.loadNewsCmd()
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		a.debouncer.Cancel()
		return a, a.applySearch(a.searchInput.Value())
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if after := a.searchInput.Value(); after != before {
		a.debouncer.Trigger(after)
	}
	return a, cmd
}

func (a *App) quit() tea.Cmd {
	a.debouncer.Cancel()
	if a.cancel != nil {
		a.cancel()
	}
	return tea.Quit
}

func (a *App) nextCategory() tea.Cmd {
	idx := 0
	for i, c := range news.Categories {
		if c == a.category {
			idx = (i + 1) % len(news.Categories)
			break
		}
	}
	a.category = news.Categories[idx]
	a.search = ""
	a.searchInput.SetValue("")
	a.debouncer.Cancel()
	a.page = 1
	a.cursor = 0
	a.view = viewNews
	return a.loadNewsCmd()
}

func (a *App) flipPage(delta int) tea.Cmd {
	if a.view != viewNews {
		return nil
	}
	next := a.page + delta
	if next < 1 || next > reader.TotalPages(a.total, a.client.PageSize()) {
		return nil
	}
	var cmd tea.Cmd
	a.pager.Do(func() {
		a.page = next
		a.cursor = 0
		cmd = a.loadNewsCmd()
	})
	return cmd
}

func (a *App) visible() []news.Article {
	switch a.view {
	case viewStocks:
		return a.stocks
	case viewBookmarks:
		if a.marks != nil {
			return a.marks.List()
		}
	case viewRecent:
		if a.recent != nil {
			return a.recent.List()
		}
	default:
		return a.articles
	}
	return nil
}

func (a *App) selected() (news.Article, bool) {
	items := a.visible()
	if a.cursor < 0 || a.cursor >= len(items) {
		return news.Article{}, false
	}
	return items[a.cursor], true
}

func (a *App) clampCursor() {
	if n := len(a.visible()); a.cursor >= n {
		a.cursor = max(0, n-1)
	}
}

func (a *App) bookmarked(url string) bool {
	return a.marks != nil && a.marks.Contains(url)
}

func (a *App) View() string {
	th := a.theme
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	if a.mode == modeSearch || a.search != "" {
		if a.mode == modeSearch {
			b.WriteString(a.searchInput.View())
		} else {
			b.WriteString(th.Meta.Render(fmt.Sprintf("Results for %q (press / to edit)", a.search)))
		}
		b.WriteString("\n")
	}

	if a.err != "" {
		b.WriteString(th.Error.Render(a.err))
		b.WriteString("\n")
	}

	b.WriteString(a.renderBody())
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderHeader() string {
	th := a.theme
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == a.view {
			tabs[i] = th.TabActive.Render(name)
		} else {
			tabs[i] = th.TabInactive.Render(name)
		}
	}
	title := th.Header.Render("newsfeed")
	category := th.Meta.Render("category: " + a.category)
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, " "), "  ", category)
}

// renderBody draws the cards that fit around the cursor.
func (a *App) renderBody() string {
	th := a.theme
	if a.loading && a.view == viewNews && len(a.articles) == 0 {
		return a.spinner.View() + " Loading..."
	}

	items := a.visible()
	if len(items) == 0 {
		return th.Meta.Render(emptyText(a.view))
	}

	perScreen := max(1, (a.height-6)/6)
	start := 0
	if a.cursor >= perScreen {
		start = a.cursor - perScreen + 1
	}
	end := min(len(items), start+perScreen)

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, RenderCard(th, items[i], CardOptions{
			Width:      a.width,
			Selected:   i == a.cursor,
			Bookmarked: a.bookmarked(items[i].URL),
		}))
	}
	body := strings.Join(cards, "\n")

	if a.view == viewNews {
		if pages := RenderPagination(th, a.page, reader.TotalPages(a.total, a.client.PageSize())); pages != "" {
			body += "\n" + pages
		}
	}
	return body
}

func emptyText(v view) string {
	switch v {
	case viewBookmarks:
		return "No bookmarks yet. Press b on an article to save it."
	case viewRecent:
		return "Nothing viewed yet."
	case viewStocks:
		return "No market news."
	}
	return "No articles found."
}

func (a *App) renderStatusBar() string {
	help := "tab view · ↑↓ move · ←→ page · enter open · b bookmark · / search · c category · d theme · q quit"
	if a.mode == modeSearch {
		help = "type to search · enter apply · esc close"
	}
	text := help
	if a.status != "" {
		text = a.status + " · " + help
	}
	if a.loading {
		text = a.spinner.View() + " " + text
	}
	return a.theme.StatusBar.Width(a.width).Render(truncateStr(text, a.width))
}
