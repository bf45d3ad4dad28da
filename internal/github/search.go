package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

const searchPath = "/search/users"

// SearchParams are the structured filters derived from a requirement.
type SearchParams struct {
	Keywords []string `mapstructure:"keywords"`
	Location string   `mapstructure:"location"`
	Language string   `mapstructure:"language"`
}

// Query renders the parameters into the directory's search syntax.
func (p *SearchParams) Query() string {
	parts := make([]string, 0, len(p.Keywords)+3)
	parts = append(parts, p.Keywords...)
	parts = append(parts, "type:user")

	if p.Location != "" {
		location := p.Location
		if strings.ContainsRune(location, ' ') {
			location = fmt.Sprintf("%q", location)
		}
		parts = append(parts, "location:"+location)
	}
	if p.Language != "" {
		parts = append(parts, "language:"+p.Language)
	}

	return strings.Join(parts, " ")
}

type searchResponse struct {
	TotalCount        int                      `json:"total_count"`
	IncompleteResults bool                     `json:"incomplete_results"`
	Items             []map[string]interface{} `json:"items"`
}

// SearchUsers pages through the user search endpoint until limit refs
// are collected or the result set is exhausted. The API caps search
// results at 1000 items; exhaustion shows up as an empty page.
func (c *Client) SearchUsers(ctx context.Context, params *SearchParams, limit int) ([]*candidate.Ref, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", limit)
	}

	pageSize := perPage
	if limit < pageSize {
		pageSize = limit
	}

	searchURL := fmt.Sprintf("%s%s", c.APIURL, searchPath)
	refs := make([]*candidate.Ref, 0, limit)

	for page := 1; len(refs) < limit; page++ {
		q := url.Values{}
		q.Set("q", params.Query())
		q.Set("per_page", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))

		var response searchResponse
		if err := c.getJSON(ctx, searchURL, q, &response); err != nil {
			return nil, err
		}

		c.logger.Debug("got search page",
			zap.Int("page", page),
			zap.Int("items", len(response.Items)),
			zap.Int("total_count", response.TotalCount),
		)

		if len(response.Items) == 0 {
			break
		}

		var pageRefs []*candidate.Ref
		if err := mapstructure.Decode(response.Items, &pageRefs); err != nil {
			return nil, fmt.Errorf("%w: decoding search items: %v", ErrMalformedResponse, err)
		}

		for _, ref := range pageRefs {
			if ref.Login == "" {
				continue
			}
			refs = append(refs, ref)
			if len(refs) == limit {
				break
			}
		}

		if page*pageSize >= response.TotalCount {
			break
		}
	}

	return refs, nil
}
