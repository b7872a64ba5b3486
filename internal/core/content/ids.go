package content

import (
	"fmt"
	"strings"

	"aiinsights.blog/cli/internal/core/textutil"
)

// ArticleID is a value object identifying an article
type ArticleID struct {
	value string
}

// NewArticleID creates an ArticleID with validation
func NewArticleID(value string) (ArticleID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ArticleID{}, fmt.Errorf("article ID cannot be empty")
	}
	return ArticleID{value: value}, nil
}

// Value returns the string value of the ArticleID
func (id ArticleID) Value() string {
	return id.value
}

// String implements the Stringer interface
func (id ArticleID) String() string {
	return id.value
}

// AuthorID is a value object identifying an author
type AuthorID struct {
	value string
}

// NewAuthorID creates an AuthorID with validation
func NewAuthorID(value string) (AuthorID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return AuthorID{}, fmt.Errorf("author ID cannot be empty")
	}
	return AuthorID{value: value}, nil
}

// Value returns the string value of the AuthorID
func (id AuthorID) Value() string {
	return id.value
}

// String implements the Stringer interface
func (id AuthorID) String() string {
	return id.value
}

// CategoryID is a value object identifying a category
type CategoryID struct {
	value string
}

// NewCategoryID creates a CategoryID with validation
func NewCategoryID(value string) (CategoryID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CategoryID{}, fmt.Errorf("category ID cannot be empty")
	}
	return CategoryID{value: value}, nil
}

// Value returns the string value of the CategoryID
func (id CategoryID) Value() string {
	return id.value
}

// String implements the Stringer interface
func (id CategoryID) String() string {
	return id.value
}

// Email is a newsletter subscriber address
type Email struct {
	value string
}

// NewEmail creates an Email validated against textutil.EmailRules
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(value)
	if result := textutil.ValidateInput(value, textutil.EmailRules); !result.IsValid {
		return Email{}, fmt.Errorf("invalid email %q: %s", value, result.Message)
	}
	return Email{value: strings.ToLower(value)}, nil
}

// Value returns the string value of the Email
func (e Email) Value() string {
	return e.value
}

// String implements the Stringer interface
func (e Email) String() string {
	return e.value
}
