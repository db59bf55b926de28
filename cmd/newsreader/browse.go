package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"newsfeed/internal/logger"
	"newsfeed/internal/ui"
)

var browseCategory string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive reader",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseCategory, "category", "", "initial category")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	category := browseCategory
	if category == "" {
		category = s.cfg.Category
	}

	// Log lines would corrupt the full-screen view.
	logger.Discard()

	app := ui.NewApp(ui.Options{
		Client:      s.client,
		Bookmarks:   s.marks,
		Recent:      s.recent,
		Preferences: s.prefs,
		SearchDelay: s.cfg.SearchDelayDuration(),
		Dark:        s.theme(ctx).Dark,
		Category:    category,
	})

	_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
