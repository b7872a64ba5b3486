package api

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

// NewHTTPClient returns a client that keeps cookies set by the API and
// replays them on later requests.
func NewHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err == nil {
		client.Jar = jar
	}

	return client
}
