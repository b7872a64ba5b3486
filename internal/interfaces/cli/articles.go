package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/core/content"
)

// ArticleListFlags holds command-line flags for `articles list`
type ArticleListFlags struct {
	Page     int
	PerPage  int
	Category string
	Author   string
	Tag      string
	Sort     string
	Params   []string
}

// NewArticlesCommand creates the articles command
func NewArticlesCommand(container *CLIContainer) *cobra.Command {
	articlesCmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"posts"},
		Short:   "List, read and search articles",
	}

	articlesCmd.AddCommand(newArticlesListCommand(container))
	articlesCmd.AddCommand(newArticlesShowCommand(container))
	articlesCmd.AddCommand(newArticlesFeaturedCommand(container))
	articlesCmd.AddCommand(newArticlesRelatedCommand(container))
	articlesCmd.AddCommand(newArticlesSearchCommand(container))

	return articlesCmd
}

func newArticlesListCommand(container *CLIContainer) *cobra.Command {
	flags := &ArticleListFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		Long: `List articles, newest first unless --sort says otherwise.

Examples:
  insights articles list
  insights articles list --page 2 --per-page 5
  insights articles list --category machine-learning --tag llm
  insights articles list --param lang=en`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, err := content.ParseParams(flags.Params)
			if err != nil {
				return err
			}

			query := content.ArticleQuery{
				Page:     flags.Page,
				PerPage:  flags.PerPage,
				Category: flags.Category,
				Author:   flags.Author,
				Tag:      flags.Tag,
				Sort:     flags.Sort,
				Extra:    extra,
			}

			articles, err := container.ContentService.ListArticles(cmd.Context(), query)
			if err != nil {
				return err
			}
			return emit(cmd, articles, func() string { return renderArticleList(articles) })
		},
	}

	cmd.Flags().IntVar(&flags.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&flags.PerPage, "per-page", 0, "Articles per page")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&flags.Author, "author", "", "Filter by author")
	cmd.Flags().StringVar(&flags.Tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&flags.Sort, "sort", "", "Sort order, e.g. -publishedAt")
	cmd.Flags().StringArrayVar(&flags.Params, "param", nil, "Extra query parameter as key=value (repeatable)")

	return cmd
}

func newArticlesShowCommand(container *CLIContainer) *cobra.Command {
	var noTrack bool

	cmd := &cobra.Command{
		Use:   "show <article-id>",
		Short: "Show a single article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := container.ContentService.GetArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := emit(cmd, article, func() string { return renderArticle(article) }); err != nil {
				return err
			}

			if noTrack {
				return nil
			}
			return container.ContentService.TrackArticleView(cmd.Context(), args[0], true)
		},
	}

	cmd.Flags().BoolVar(&noTrack, "no-track", false, "Do not record a view for this article")

	return cmd
}

func newArticlesFeaturedCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := container.ContentService.FeaturedArticles(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, articles, func() string { return renderArticleList(articles) })
		},
	}
}

func newArticlesRelatedCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "related <article-id>",
		Short: "List articles related to an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := container.ContentService.RelatedArticles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, articles, func() string { return renderArticleList(articles) })
		},
	}
}

func newArticlesSearchCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search articles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			articles, err := container.ContentService.SearchArticles(cmd.Context(), query)
			if err != nil {
				return err
			}
			return emit(cmd, articles, func() string {
				if len(articles) == 0 {
					return mutedStyle.Render(fmt.Sprintf("No articles match %q.", query))
				}
				return renderArticleList(articles)
			})
		},
	}
}
