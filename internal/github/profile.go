package github

import (
	"context"
	"fmt"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

type userResponse struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	HTMLURL     string `json:"html_url"`
}

// GetProfile fetches the base profile record. This is the one fetch a
// candidate cannot survive without: a failure here drops the candidate.
func (c *Client) GetProfile(ctx context.Context, login string) (*candidate.Profile, error) {
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}

	profileURL := fmt.Sprintf("%s/users/%s", c.APIURL, login)

	var user userResponse
	if err := c.getJSON(ctx, profileURL, nil, &user); err != nil {
		return nil, err
	}

	if user.Login == "" {
		return nil, fmt.Errorf("%w: profile without login for %s", ErrMalformedResponse, login)
	}

	htmlURL := user.HTMLURL
	if htmlURL == "" {
		htmlURL = fmt.Sprintf("%s/%s", c.HTMLURL, user.Login)
	}

	return &candidate.Profile{
		Login:       user.Login,
		Name:        user.Name,
		Bio:         user.Bio,
		Location:    user.Location,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		ProfileURL:  htmlURL,
	}, nil
}
