package api

import (
	"net/http"
	"net/url"

	"aiinsights.blog/cli/internal/core/content"
)

// Logical operation names
const (
	OpListArticles        = "list-articles"
	OpGetArticle          = "get-article"
	OpFeaturedArticles    = "featured-articles"
	OpRelatedArticles     = "related-articles"
	OpSearchArticles      = "search-articles"
	OpListCategories      = "list-categories"
	OpCategoryArticles    = "category-articles"
	OpListAuthors         = "list-authors"
	OpGetAuthor           = "get-author"
	OpSubscribeNewsletter = "subscribe-newsletter"
	OpTrackArticleView    = "track-article-view"
)

// Catalog maps logical operations to requests. It performs no I/O and no
// validation; a zero ID produces a request with an empty path segment.
type Catalog struct{}

func (Catalog) ListArticles(query content.ArticleQuery) Request {
	return get(OpListArticles, "/posts", query.Values())
}

func (Catalog) GetArticle(id content.ArticleID) Request {
	return get(OpGetArticle, "/posts/"+url.PathEscape(id.Value()), nil)
}

func (Catalog) FeaturedArticles() Request {
	return get(OpFeaturedArticles, "/posts/featured", nil)
}

func (Catalog) RelatedArticles(id content.ArticleID) Request {
	return get(OpRelatedArticles, "/posts/"+url.PathEscape(id.Value())+"/related", nil)
}

func (Catalog) SearchArticles(query string) Request {
	return get(OpSearchArticles, "/posts/search", url.Values{"query": {query}})
}

func (Catalog) ListCategories() Request {
	return get(OpListCategories, "/categories", nil)
}

func (Catalog) CategoryArticles(id content.CategoryID) Request {
	return get(OpCategoryArticles, "/categories/"+url.PathEscape(id.Value())+"/posts", nil)
}

func (Catalog) ListAuthors() Request {
	return get(OpListAuthors, "/authors", nil)
}

func (Catalog) GetAuthor(id content.AuthorID) Request {
	return get(OpGetAuthor, "/authors/"+url.PathEscape(id.Value()), nil)
}

func (Catalog) SubscribeNewsletter(email content.Email) Request {
	return Request{
		Operation: OpSubscribeNewsletter,
		Method:    http.MethodPost,
		Path:      "/newsletter/subscribe",
		Body:      subscribeBody{Email: email.Value()},
	}
}

func (Catalog) TrackArticleView(id content.ArticleID) Request {
	return Request{
		Operation: OpTrackArticleView,
		Method:    http.MethodPost,
		Path:      "/analytics/view",
		Body:      viewBody{ArticleID: id.Value()},
	}
}

type subscribeBody struct {
	Email string `json:"email"`
}

type viewBody struct {
	ArticleID string `json:"articleId"`
}

func get(operation, path string, query url.Values) Request {
	return Request{
		Operation: operation,
		Method:    http.MethodGet,
		Path:      path,
		Query:     query,
	}
}
