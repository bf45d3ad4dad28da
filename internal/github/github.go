// Package github is the client for the public GitHub developer
// directory: paginated user search through the REST API plus profile
// page scraping for the data the REST API does not expose.
package github

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.github.com"
	htmlURL   = "https://github.com"
	userAgent = "sphynx-hq/sphynx"
	// Max value for search per page.
	perPage = 100
)

type Client struct {
	// token may be empty: the API then serves unauthenticated requests
	// under a stricter rate limit.
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	HTMLURL    string
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:   token,
		APIURL:  apiURL,
		HTMLURL: htmlURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Authenticated reports whether the client carries a token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}
