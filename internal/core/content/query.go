package content

import (
	"net/url"
	"strconv"
	"strings"
)

// ArticleQuery filters and pages the article listing. Zero fields are not
// sent to the API.
type ArticleQuery struct {
	Page     int
	PerPage  int
	Category string
	Author   string
	Tag      string
	Sort     string

	// Extra carries parameters the typed fields do not cover
	Extra map[string]string
}

// Values converts the query into URL query parameters
func (q ArticleQuery) Values() url.Values {
	values := url.Values{}
	for k, v := range q.Extra {
		if k = strings.TrimSpace(k); k != "" {
			values.Set(k, v)
		}
	}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		values.Set("limit", strconv.Itoa(q.PerPage))
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Author != "" {
		values.Set("author", q.Author)
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}

	return values
}

// ParseParams turns "key=value" pairs into an Extra map
func ParseParams(pairs []string) (map[string]string, error) {
	extra := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &InvalidParamError{Pair: pair}
		}
		extra[key] = value
	}
	return extra, nil
}

// InvalidParamError reports a malformed key=value pair
type InvalidParamError struct {
	Pair string
}

func (e *InvalidParamError) Error() string {
	return "invalid parameter " + strconv.Quote(e.Pair) + ": expected key=value"
}
