// Package content defines the blog entities returned by the content API and
// the typed parameters used to query it.
package content

import (
	"strings"
)

// Article is a blog post as served by the content API
type Article struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"content,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
	ReadingTime int        `json:"readingTime,omitempty"`
	Views       int64      `json:"views,omitempty"`
	PublishedAt *Timestamp `json:"publishedAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// Summary returns the excerpt, or the leading part of the body when the
// API did not send one
func (a Article) Summary() string {
	if a.Excerpt != "" {
		return a.Excerpt
	}
	return strings.TrimSpace(a.Body)
}

// AuthorName returns the author's display name or an empty string
func (a Article) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Name
}

// Author is a blog contributor
type Author struct {
	ID           ID                `json:"id"`
	Name         string            `json:"name"`
	Bio          string            `json:"bio,omitempty"`
	Avatar       string            `json:"avatar,omitempty"`
	Role         string            `json:"role,omitempty"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty"`
	ArticleCount int               `json:"articleCount,omitempty"`
}

// Category groups articles by topic
type Category struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	Description  string `json:"description,omitempty"`
	ArticleCount int    `json:"articleCount,omitempty"`
}

// Subscription is the API's answer to a newsletter signup
type Subscription struct {
	Email        string     `json:"email,omitempty"`
	Message      string     `json:"message,omitempty"`
	Success      bool       `json:"success"`
	SubscribedAt *Timestamp `json:"subscribedAt,omitempty"`
}
