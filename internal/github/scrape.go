package github

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The REST API does not expose pinned repositories or the yearly
// contribution counter, so they come from the public profile page.
const (
	contributionsSelector = "h2.f4.text-normal.mb-2"
	streakSelector        = ".js-yearly-contributions h2"
	pinnedSelector        = "div.pinned-item-list-item-content span.repo"
)

var digitsPattern = regexp.MustCompile(`[\d,]+`)

// Activity holds the scraped portion of a profile.
type Activity struct {
	Contributions int
	Streak        string
	PinnedRepos   []string
}

// GetActivity fetches the profile page once and extracts contributions,
// the yearly-contributions headline and pinned repository names.
func (c *Client) GetActivity(ctx context.Context, login string) (*Activity, error) {
	if login == "" {
		return nil, fmt.Errorf("login is required")
	}

	pageURL := fmt.Sprintf("%s/%s", c.HTMLURL, login)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing profile page: %v", ErrMalformedResponse, err)
	}

	activity := &Activity{
		Contributions: parseContributionCount(doc.Find(contributionsSelector).First().Text()),
		Streak:        strings.Join(strings.Fields(doc.Find(streakSelector).First().Text()), " "),
		PinnedRepos:   []string{},
	}

	doc.Find(pinnedSelector).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name != "" {
			activity.PinnedRepos = append(activity.PinnedRepos, name)
		}
	})

	return activity, nil
}

// parseContributionCount pulls the leading number out of headlines like
// "3,284 contributions in the last year".
func parseContributionCount(text string) int {
	match := digitsPattern.FindString(text)
	if match == "" {
		return 0
	}

	count, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return count
}
