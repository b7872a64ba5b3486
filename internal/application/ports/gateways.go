package ports

import (
	"context"

	"aiinsights.blog/cli/internal/core/content"
)

// ContentGateway defines the logical operations offered by the content API
type ContentGateway interface {
	// ListArticles returns a page of articles filtered by the query
	ListArticles(ctx context.Context, query content.ArticleQuery) ([]content.Article, error)

	// GetArticle returns a single article
	GetArticle(ctx context.Context, id content.ArticleID) (*content.Article, error)

	// FeaturedArticles returns the articles highlighted by the editors
	FeaturedArticles(ctx context.Context) ([]content.Article, error)

	// RelatedArticles returns articles related to the given one
	RelatedArticles(ctx context.Context, id content.ArticleID) ([]content.Article, error)

	// SearchArticles runs a free-text search
	SearchArticles(ctx context.Context, query string) ([]content.Article, error)

	// ListCategories returns every category
	ListCategories(ctx context.Context) ([]content.Category, error)

	// CategoryArticles returns the articles of one category
	CategoryArticles(ctx context.Context, id content.CategoryID) ([]content.Article, error)

	// ListAuthors returns every author
	ListAuthors(ctx context.Context) ([]content.Author, error)

	// GetAuthor returns a single author
	GetAuthor(ctx context.Context, id content.AuthorID) (*content.Author, error)

	// SubscribeNewsletter signs an address up. It is never retried.
	SubscribeNewsletter(ctx context.Context, email content.Email) (*content.Subscription, error)

	// TrackArticleView records a view of an article. It is never retried.
	TrackArticleView(ctx context.Context, id content.ArticleID) error
}

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})

	// SetLogLevel sets the logging level
	SetLogLevel(level LogLevel)

	// GetLogLevel returns the current logging level
	GetLogLevel() LogLevel

	// ConfigureLogging configures logging settings
	ConfigureLogging(config *LoggingConfig) error
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Severity orders levels; unknown levels rank as info
func (l LogLevel) Severity() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	default:
		return 1
	}
}

// Valid reports whether the level is one of the known levels
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	Level LogLevel `json:"level"`
	JSON  bool     `json:"json"`
}
