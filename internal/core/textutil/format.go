// Package textutil holds the small string and date helpers used when
// presenting content returned by the blog API.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale, or an unparseable one, is given
const DefaultLocale = "en-US"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats the content API is known to emit
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", value)
}

// FormatDate renders a date as "January 2, 2006" for English locales and
// "2 January 2006" for any other valid locale. It accepts a time.Time, a
// *time.Time or a string. Empty or invalid input yields "".
func FormatDate(value any, locale string) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return ""
		}
		t = *v
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return ""
		}
		t = parsed
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	if base, _ := tag.Base(); base.String() == "en" {
		return t.Format("January 2, 2006")
	}
	return t.Format("2 January 2006")
}

// TruncateText shortens text to maxLength runes and appends an ellipsis
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + "..."
}

// Capitalize upper-cases the first letter and leaves the rest untouched
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	separators    = regexp.MustCompile(`[\s_]+`)
)

// ToKebabCase converts "camelCase words_here" into "camel-case-words-here"
func ToKebabCase(s string) string {
	if s == "" {
		return ""
	}
	s = camelBoundary.ReplaceAllString(s, "$1-$2")
	s = separators.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}

// GenerateID returns a random 32 character identifier
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
