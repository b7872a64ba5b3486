package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/core/content"
	"aiinsights.blog/cli/internal/core/textutil"
)

const (
	outputText = "text"
	outputJSON = "json"
)

const summaryLength = 160

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func validateOutputFormat(cmd *cobra.Command) error {
	switch format := outputFormat(cmd); format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", format)
	}
}

func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("output")
	if err != nil || format == "" {
		return outputText
	}
	return strings.ToLower(format)
}

// emit writes v as JSON or as the text produced by render
func emit(cmd *cobra.Command, v any, render func() string) error {
	out := cmd.OutOrStdout()
	if outputFormat(cmd) == outputJSON {
		return writeJSON(out, v)
	}
	_, err := fmt.Fprintln(out, render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func renderArticleList(articles []content.Article) string {
	if len(articles) == 0 {
		return mutedStyle.Render("No articles found.")
	}

	blocks := make([]string, 0, len(articles))
	for i, article := range articles {
		lines := []string{titleStyle.Render(fmt.Sprintf("%d. %s", i+1, article.Title))}
		if meta := articleMeta(article); meta != "" {
			lines = append(lines, "   "+metaStyle.Render(meta))
		}
		if summary := textutil.TruncateText(article.Summary(), summaryLength); summary != "" {
			lines = append(lines, "   "+summary)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func renderArticle(article *content.Article) string {
	lines := []string{titleStyle.Render(article.Title)}
	if meta := articleMeta(*article); meta != "" {
		lines = append(lines, metaStyle.Render(meta))
	}
	if len(article.Tags) > 0 {
		tags := make([]string, len(article.Tags))
		for i, tag := range article.Tags {
			tags[i] = "#" + textutil.ToKebabCase(tag)
		}
		lines = append(lines, tagStyle.Render(strings.Join(tags, " ")))
	}

	body := strings.TrimSpace(article.Body)
	if body == "" {
		body = article.Summary()
	}
	if body != "" {
		lines = append(lines, "", body)
	}
	return strings.Join(lines, "\n")
}

// articleMeta joins the byline fields that are present
func articleMeta(article content.Article) string {
	var parts []string
	if name := article.AuthorName(); name != "" {
		parts = append(parts, "by "+name)
	}
	if article.Category != nil && article.Category.Name != "" {
		parts = append(parts, article.Category.Name)
	}
	if date := textutil.FormatDate(article.PublishedAt.TimeOrZero(), textutil.DefaultLocale); date != "" {
		parts = append(parts, date)
	}
	if article.ReadingTime > 0 {
		parts = append(parts, fmt.Sprintf("%d min read", article.ReadingTime))
	}
	if article.Featured {
		parts = append(parts, "featured")
	}
	return strings.Join(parts, " · ")
}

func renderCategories(categories []content.Category) string {
	if len(categories) == 0 {
		return mutedStyle.Render("No categories found.")
	}

	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		line := titleStyle.Render(category.Name) + " " + metaStyle.Render("("+category.ID.String()+")")
		if category.ArticleCount > 0 {
			line += metaStyle.Render(fmt.Sprintf(" %d articles", category.ArticleCount))
		}
		if category.Description != "" {
			line += "\n   " + textutil.TruncateText(category.Description, summaryLength)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderAuthors(authors []content.Author) string {
	if len(authors) == 0 {
		return mutedStyle.Render("No authors found.")
	}

	lines := make([]string, 0, len(authors))
	for _, author := range authors {
		line := titleStyle.Render(author.Name) + " " + metaStyle.Render("("+author.ID.String()+")")
		if author.Role != "" {
			line += " " + metaStyle.Render(textutil.Capitalize(author.Role))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderAuthor(author *content.Author) string {
	lines := []string{titleStyle.Render(author.Name)}
	if author.Role != "" {
		lines = append(lines, metaStyle.Render(textutil.Capitalize(author.Role)))
	}
	if author.ArticleCount > 0 {
		lines = append(lines, metaStyle.Render(fmt.Sprintf("%d articles", author.ArticleCount)))
	}
	if author.Bio != "" {
		lines = append(lines, "", author.Bio)
	}
	if len(author.SocialLinks) > 0 {
		networks := make([]string, 0, len(author.SocialLinks))
		for network := range author.SocialLinks {
			networks = append(networks, network)
		}
		sort.Strings(networks)

		lines = append(lines, "")
		for _, network := range networks {
			lines = append(lines, fmt.Sprintf("%s: %s", textutil.Capitalize(network), author.SocialLinks[network]))
		}
	}
	return strings.Join(lines, "\n")
}

func renderSubscription(subscription *content.Subscription) string {
	message := subscription.Message
	if message == "" {
		message = "Thanks for subscribing!"
	}
	return successStyle.Render("✓ "+message) + " " + metaStyle.Render(subscription.Email)
}
