package candidate

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

const (
	// Placeholders shown instead of empty profile fields.
	NoBioPlaceholder      = "(no bio provided)"
	NoLocationPlaceholder = "(location unknown)"
)

// Ref is the minimal identifier returned by the directory search.
// The search order is not meaningful and is discarded after enrichment.
type Ref struct {
	Login      string `json:"login,omitempty"`
	ProfileURL string `json:"html_url,omitempty" mapstructure:"html_url"`
}

// Profile holds everything collected about one candidate. It is built
// once by the enricher and never mutated afterwards.
type Profile struct {
	Login              string         `json:"login"`
	Name               string         `json:"name"`
	Bio                string         `json:"bio"`
	Location           string         `json:"location"`
	Languages          map[string]int `json:"languages"`
	Contributions      int            `json:"contributions"`
	PublicRepos        int            `json:"public_repos"`
	Followers          int            `json:"followers"`
	PinnedRepos        []string       `json:"pinned_repos"`
	ContributionStreak string         `json:"contribution_streak"`
	ProfileURL         string         `json:"profile_url"`
}

// Scored is a profile plus the result of the scoring step.
type Scored struct {
	Profile
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// Candidates is an ordered collection of scored candidates.
type Candidates struct {
	Items []*Scored `json:"items"`
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByLogin(login string) *Scored {
	for _, item := range c.Items {
		if item.Login == login {
			return item
		}
	}
	return nil
}

// SortByScore orders candidates by score descending. The sort is
// stable: candidates with equal scores keep their pre-sort order.
func (c *Candidates) SortByScore() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Score > c.Items[j].Score
	})
}

// Logins returns candidate logins in the current order.
func (c *Candidates) Logins() []string {
	logins := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		logins = append(logins, item.Login)
	}
	return logins
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByLocation groups candidates under their location for a quick
// overview in the CLI.
func (c *Candidates) ReportByLocation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range c.Items {
		key := item.DisplayLocation()
		report[key] = append(report[key], map[string]string{
			"name":        item.DisplayName(),
			"score":       fmt.Sprintf("%d/100", item.Score),
			"bio":         item.DisplayBio(),
			"explanation": item.Explanation,
			"url":         item.ProfileURL,
		})
	}
	return report
}

// DisplayName falls back to the login when the real name is not set.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

func (p *Profile) DisplayBio() string {
	if p.Bio == "" {
		return NoBioPlaceholder
	}
	return p.Bio
}

func (p *Profile) DisplayLocation() string {
	if p.Location == "" {
		return NoLocationPlaceholder
	}
	return p.Location
}

// TopLanguages returns up to limit language names ordered by usage count
// descending, names breaking count ties alphabetically.
func (p *Profile) TopLanguages(limit int) []string {
	names := make([]string, 0, len(p.Languages))
	for name := range p.Languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p.Languages[names[i]] != p.Languages[names[j]] {
			return p.Languages[names[i]] > p.Languages[names[j]]
		}
		return names[i] < names[j]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
