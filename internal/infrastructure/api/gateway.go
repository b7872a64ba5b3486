package api

import (
	"context"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/core/content"
	"aiinsights.blog/cli/internal/core/textutil"
)

// ContentAPIGateway implements the ContentGateway interface. Reads go
// through the retry controller, writes hit the transport once.
type ContentAPIGateway struct {
	catalog Catalog
	reader  Transport
	writer  Transport
	logger  ports.LoggingGateway
}

// NewContentAPIGateway composes the catalog, retry controller and transport
func NewContentAPIGateway(transport Transport, policy RetryPolicy, logger ports.LoggingGateway) *ContentAPIGateway {
	return &ContentAPIGateway{
		reader: NewRetryController(transport, policy, logger),
		writer: transport,
		logger: logger,
	}
}

func (g *ContentAPIGateway) ListArticles(ctx context.Context, query content.ArticleQuery) ([]content.Article, error) {
	var articles []content.Article
	if err := g.read(ctx, g.catalog.ListArticles(query), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *ContentAPIGateway) GetArticle(ctx context.Context, id content.ArticleID) (*content.Article, error) {
	var article content.Article
	if err := g.read(ctx, g.catalog.GetArticle(id), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (g *ContentAPIGateway) FeaturedArticles(ctx context.Context) ([]content.Article, error) {
	var articles []content.Article
	if err := g.read(ctx, g.catalog.FeaturedArticles(), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *ContentAPIGateway) RelatedArticles(ctx context.Context, id content.ArticleID) ([]content.Article, error) {
	var articles []content.Article
	if err := g.read(ctx, g.catalog.RelatedArticles(id), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *ContentAPIGateway) SearchArticles(ctx context.Context, query string) ([]content.Article, error) {
	var articles []content.Article
	if err := g.read(ctx, g.catalog.SearchArticles(query), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *ContentAPIGateway) ListCategories(ctx context.Context) ([]content.Category, error) {
	var categories []content.Category
	if err := g.read(ctx, g.catalog.ListCategories(), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (g *ContentAPIGateway) CategoryArticles(ctx context.Context, id content.CategoryID) ([]content.Article, error) {
	var articles []content.Article
	if err := g.read(ctx, g.catalog.CategoryArticles(id), &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (g *ContentAPIGateway) ListAuthors(ctx context.Context) ([]content.Author, error) {
	var authors []content.Author
	if err := g.read(ctx, g.catalog.ListAuthors(), &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (g *ContentAPIGateway) GetAuthor(ctx context.Context, id content.AuthorID) (*content.Author, error) {
	var author content.Author
	if err := g.read(ctx, g.catalog.GetAuthor(id), &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (g *ContentAPIGateway) SubscribeNewsletter(ctx context.Context, email content.Email) (*content.Subscription, error) {
	var subscription content.Subscription
	if err := g.write(ctx, g.catalog.SubscribeNewsletter(email), &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (g *ContentAPIGateway) TrackArticleView(ctx context.Context, id content.ArticleID) error {
	return g.write(ctx, g.catalog.TrackArticleView(id), nil)
}

func (g *ContentAPIGateway) read(ctx context.Context, req Request, out any) error {
	return g.reader.Do(ctx, g.withRequestID(req), out)
}

func (g *ContentAPIGateway) write(ctx context.Context, req Request, out any) error {
	return g.writer.Do(ctx, g.withRequestID(req), out)
}

// withRequestID tags every attempt of one logical call with the same id
func (g *ContentAPIGateway) withRequestID(req Request) Request {
	requestID := textutil.GenerateID()
	req.Headers = MergeHeaders(req.Headers, map[string]string{"X-Request-ID": requestID})

	if g.logger != nil {
		g.logger.Log(ports.LogLevelDebug, "Calling content API", map[string]interface{}{
			"operation":  req.Operation,
			"method":     req.Method,
			"path":       req.Path,
			"request_id": requestID,
		})
	}
	return req
}

var _ ports.ContentGateway = (*ContentAPIGateway)(nil)
