package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"newsfeed/internal/apperr"
	"newsfeed/internal/reader"
	"newsfeed/internal/services/news"
	"newsfeed/internal/ui"
)

var (
	flagCategory string
	flagPage     int
	flagDomains  string
	flagSortBy   string
	flagJSON     bool
	flagWidth    int
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show top headlines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, reader.Params{Category: flagCategory, Page: flagPage})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search all articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, reader.Params{
			Search:  strings.Join(args, " "),
			Page:    flagPage,
			Domains: flagDomains,
			SortBy:  flagSortBy,
		})
	},
}

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Show the latest market news from financial publishers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		resp, err := s.client.StockNews(ctx)
		if err != nil {
			return describe(err)
		}
		return printResponse(cmd.OutOrStdout(), s.theme(ctx), resp, s.marks.Contains, 0, 0)
	},
}

func init() {
	headlinesCmd.Flags().StringVar(&flagCategory, "category", "", "category ("+strings.Join(news.Categories, ", ")+")")
	for _, c := range []*cobra.Command{headlinesCmd, searchCmd} {
		c.Flags().IntVar(&flagPage, "page", 1, "page number")
	}
	searchCmd.Flags().StringVar(&flagDomains, "domains", "", "comma-separated domains to search")
	searchCmd.Flags().StringVar(&flagSortBy, "sort-by", "", "sort order ("+strings.Join(news.SortOrders, ", ")+")")
	for _, c := range []*cobra.Command{headlinesCmd, searchCmd, stocksCmd} {
		c.Flags().BoolVar(&flagJSON, "json", false, "print the validated response as JSON")
		c.Flags().IntVar(&flagWidth, "width", 80, "card width")
	}
}

func runFetch(cmd *cobra.Command, p reader.Params) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.Category == "" && p.Search == "" {
		p.Category = s.cfg.Category
	}

	resp, err := s.client.FetchNews(ctx, p)
	if err != nil {
		return describe(err)
	}
	return printResponse(cmd.OutOrStdout(), s.theme(ctx), resp, s.marks.Contains, p.Page, s.client.PageSize())
}

func printResponse(w io.Writer, th ui.Theme, resp *news.Response, bookmarked func(string) bool, page, pageSize int) error {
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(w, ui.RenderList(th, resp.Articles, flagWidth, bookmarked))
	if page > 0 {
		if pages := ui.RenderPagination(th, page, reader.TotalPages(resp.TotalResults, pageSize)); pages != "" {
			fmt.Fprintln(w, pages)
		}
	}
	return nil
}

// describe replaces err with the message a reader should see.
func describe(err error) error {
	return errors.New(apperr.Describe(err).Message)
}

