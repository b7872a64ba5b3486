package cli

import (
	"github.com/spf13/cobra"
)

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand(container *CLIContainer) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse article categories",
	}

	categoriesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := container.ContentService.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, categories, func() string { return renderCategories(categories) })
		},
	})

	categoriesCmd.AddCommand(&cobra.Command{
		Use:   "articles <category-id>",
		Short: "List the articles in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := container.ContentService.CategoryArticles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, articles, func() string { return renderArticleList(articles) })
		},
	})

	return categoriesCmd
}

// NewAuthorsCommand creates the authors command
func NewAuthorsCommand(container *CLIContainer) *cobra.Command {
	authorsCmd := &cobra.Command{
		Use:   "authors",
		Short: "Browse blog authors",
	}

	authorsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authors, err := container.ContentService.ListAuthors(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, authors, func() string { return renderAuthors(authors) })
		},
	})

	authorsCmd.AddCommand(&cobra.Command{
		Use:   "show <author-id>",
		Short: "Show an author profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author, err := container.ContentService.GetAuthor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, author, func() string { return renderAuthor(author) })
		},
	})

	return authorsCmd
}

// NewNewsletterCommand creates the newsletter command
func NewNewsletterCommand(container *CLIContainer) *cobra.Command {
	newsletterCmd := &cobra.Command{
		Use:   "newsletter",
		Short: "Manage the newsletter subscription",
	}

	newsletterCmd.AddCommand(&cobra.Command{
		Use:   "subscribe <email>",
		Short: "Subscribe an address to the newsletter",
		Long: `Subscribe an address to the newsletter.

The request is sent once and never retried.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subscription, err := container.ContentService.Subscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(cmd, subscription, func() string { return renderSubscription(subscription) })
		},
	})

	return newsletterCmd
}
