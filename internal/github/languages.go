package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type repoResponse struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Fork     bool   `json:"fork"`
}

// GetLanguages aggregates the primary language of the user's most
// recently pushed repositories into a language -> repo count mapping.
// One page of repositories is enough signal for scoring.
func (c *Client) GetLanguages(ctx context.Context, login string) (map[string]int, error) {
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}

	reposURL := fmt.Sprintf("%s/users/%s/repos", c.APIURL, login)

	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("sort", "pushed")

	var repos []repoResponse
	if err := c.getJSON(ctx, reposURL, q, &repos); err != nil {
		return nil, err
	}

	languages := make(map[string]int)
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		languages[repo.Language]++
	}

	return languages, nil
}
