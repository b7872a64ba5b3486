package services

import (
	"context"
	"fmt"
	"strings"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/core/content"
)

// ContentService turns user input into gateway calls
type ContentService struct {
	gateway ports.ContentGateway
	logger  ports.LoggingGateway
}

// NewContentService creates a new content service
func NewContentService(gateway ports.ContentGateway, logger ports.LoggingGateway) *ContentService {
	return &ContentService{
		gateway: gateway,
		logger:  logger,
	}
}

// ListArticles returns one page of the article listing
func (s *ContentService) ListArticles(ctx context.Context, query content.ArticleQuery) ([]content.Article, error) {
	if query.Page < 0 {
		return nil, fmt.Errorf("page cannot be negative")
	}
	if query.PerPage < 0 {
		return nil, fmt.Errorf("per-page cannot be negative")
	}

	articles, err := s.gateway.ListArticles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	s.logger.Log(ports.LogLevelDebug, "Listed articles", map[string]interface{}{
		"count": len(articles),
		"page":  query.Page,
	})
	return articles, nil
}

// GetArticle fetches a single article
func (s *ContentService) GetArticle(ctx context.Context, rawID string) (*content.Article, error) {
	id, err := content.NewArticleID(rawID)
	if err != nil {
		return nil, err
	}

	article, err := s.gateway.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return article, nil
}

// FeaturedArticles returns the editor-picked articles
func (s *ContentService) FeaturedArticles(ctx context.Context) ([]content.Article, error) {
	articles, err := s.gateway.FeaturedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured articles: %w", err)
	}
	return articles, nil
}

// RelatedArticles returns articles related to the given one
func (s *ContentService) RelatedArticles(ctx context.Context, rawID string) ([]content.Article, error) {
	id, err := content.NewArticleID(rawID)
	if err != nil {
		return nil, err
	}

	articles, err := s.gateway.RelatedArticles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles related to %s: %w", id, err)
	}
	return articles, nil
}

// SearchArticles runs a full-text search
func (s *ContentService) SearchArticles(ctx context.Context, query string) ([]content.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	articles, err := s.gateway.SearchArticles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	s.logger.Log(ports.LogLevelDebug, "Searched articles", map[string]interface{}{
		"query": query,
		"count": len(articles),
	})
	return articles, nil
}

func (s *ContentService) ListCategories(ctx context.Context) ([]content.Category, error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *ContentService) CategoryArticles(ctx context.Context, rawID string) ([]content.Article, error) {
	id, err := content.NewCategoryID(rawID)
	if err != nil {
		return nil, err
	}

	articles, err := s.gateway.CategoryArticles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles in category %s: %w", id, err)
	}
	return articles, nil
}

func (s *ContentService) ListAuthors(ctx context.Context) ([]content.Author, error) {
	authors, err := s.gateway.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

func (s *ContentService) GetAuthor(ctx context.Context, rawID string) (*content.Author, error) {
	id, err := content.NewAuthorID(rawID)
	if err != nil {
		return nil, err
	}

	author, err := s.gateway.GetAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get author %s: %w", id, err)
	}
	return author, nil
}

// Subscribe validates the address and signs it up for the newsletter
func (s *ContentService) Subscribe(ctx context.Context, rawEmail string) (*content.Subscription, error) {
	email, err := content.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	subscription, err := s.gateway.SubscribeNewsletter(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", email, err)
	}
	if subscription.Email == "" {
		subscription.Email = email.Value()
	}

	s.logger.Log(ports.LogLevelInfo, "Newsletter subscription created", map[string]interface{}{
		"email": email.Value(),
	})
	return subscription, nil
}

// TrackArticleView records a view. With bestEffort a failure is logged
// and swallowed.
func (s *ContentService) TrackArticleView(ctx context.Context, rawID string, bestEffort bool) error {
	id, err := content.NewArticleID(rawID)
	if err != nil {
		return err
	}

	if err := s.gateway.TrackArticleView(ctx, id); err != nil {
		if bestEffort {
			s.logger.Log(ports.LogLevelWarn, "Failed to track article view", map[string]interface{}{
				"article_id": id.Value(),
				"error":      err.Error(),
			})
			return nil
		}
		return fmt.Errorf("failed to track view of article %s: %w", id, err)
	}
	return nil
}
