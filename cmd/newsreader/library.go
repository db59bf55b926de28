package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Manage bookmarked articles",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		items := s.marks.List()
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks yet.")
			return nil
		}
		for i, a := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n    %s\n", i+1, a.Title, a.URL)
		}
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		removed, err := s.marks.Remove(ctx, args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no bookmark for %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
		return nil
	},
}

var bookmarksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.marks.Clear(ctx)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show or clear recently viewed articles",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently viewed articles, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		items := s.recent.List()
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing viewed yet.")
			return nil
		}
		for _, a := range items {
			viewed := ""
			if a.ViewedAt != nil {
				viewed = a.ViewedAt.Local().Format("Jan 2 15:04")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n             %s\n", viewed, a.Title, a.URL)
		}
		return nil
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recently viewed articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.recent.Clear(ctx)
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show or set the color theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dark", "light"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 1 {
			if err := s.prefs.SetDarkMode(ctx, args[0] == "dark"); err != nil {
				return err
			}
		}
		dark, err := s.prefs.DarkMode(ctx)
		if err != nil {
			return err
		}
		name := "light"
		if dark {
			name = "dark"
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksRemoveCmd, bookmarksClearCmd)
	recentCmd.AddCommand(recentListCmd, recentClearCmd)
}
