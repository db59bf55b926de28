package ui

import "github.com/charmbracelet/lipgloss"

// Theme is the set of styles for one color scheme.
type Theme struct {
	Dark bool

	Header      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Card        lipgloss.Style
	CardActive  lipgloss.Style
	Title       lipgloss.Style
	Source      lipgloss.Style
	Meta        lipgloss.Style
	Body        lipgloss.Style
	Link        lipgloss.Style
	Bookmark    lipgloss.Style
	PageActive  lipgloss.Style
	Page        lipgloss.Style
	StatusBar   lipgloss.Style
	Error       lipgloss.Style
	Prompt      lipgloss.Style
	Spinner     lipgloss.Style
}

type palette struct {
	primary, secondary, dim, accent, border, green, red, tabBg, statusBg, statusFg lipgloss.Color
}

var (
	lightPalette = palette{
		primary:   "#2563EB",
		secondary: "#374151",
		dim:       "#9CA3AF",
		accent:    "#F59E0B",
		border:    "#E5E7EB",
		green:     "#059669",
		red:       "#DC2626",
		tabBg:     "#F3F4F6",
		statusBg:  "#E5E7EB",
		statusFg:  "#374151",
	}
	darkPalette = palette{
		primary:   "#60A5FA",
		secondary: "#D1D5DB",
		dim:       "#6B7280",
		accent:    "#FBBF24",
		border:    "#374151",
		green:     "#34D399",
		red:       "#F87171",
		tabBg:     "#1F2937",
		statusBg:  "#111827",
		statusFg:  "#D1D5DB",
	}
)

// ThemeFor returns the dark or light theme.
func ThemeFor(dark bool) Theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return Theme{
		Dark: dark,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			PaddingLeft(1),

		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(p.primary).
			Padding(0, 1).
			Bold(true),

		TabInactive: lipgloss.NewStyle().
			Foreground(p.secondary).
			Background(p.tabBg).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		CardActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		Source: lipgloss.NewStyle().Foreground(p.green),
		Meta:   lipgloss.NewStyle().Foreground(p.dim),
		Body:   lipgloss.NewStyle().Foreground(p.secondary),

		Link: lipgloss.NewStyle().
			Foreground(p.dim).
			Italic(true),

		Bookmark: lipgloss.NewStyle().Foreground(p.accent),

		PageActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(p.primary).
			Padding(0, 1),

		Page: lipgloss.NewStyle().
			Foreground(p.secondary).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(p.statusBg).
			Foreground(p.statusFg).
			PaddingLeft(1).
			PaddingRight(1),

		Error:   lipgloss.NewStyle().Foreground(p.red).Bold(true),
		Prompt:  lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Spinner: lipgloss.NewStyle().Foreground(p.accent),
	}
}
