package candidate

import (
	"testing"
)

func TestSortByScoreIsStableDescending(t *testing.T) {
	list := &Candidates{
		Items: []*Scored{
			{Profile: Profile{Login: "alpha"}, Score: 40},
			{Profile: Profile{Login: "bravo"}, Score: 90},
			{Profile: Profile{Login: "charlie"}, Score: 40},
			{Profile: Profile{Login: "delta"}, Score: 0},
		},
	}

	list.SortByScore()

	got := list.Logins()
	want := []string{"bravo", "alpha", "charlie", "delta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order at %d: got %v, want %v", i, got, want)
		}
	}

	for i := 1; i < list.Len(); i++ {
		if list.Items[i-1].Score < list.Items[i].Score {
			t.Fatalf("scores not descending: %d before %d", list.Items[i-1].Score, list.Items[i].Score)
		}
	}
}

func TestDisplayPlaceholders(t *testing.T) {
	p := &Profile{Login: "octocat"}

	if p.DisplayName() != "octocat" {
		t.Fatalf("expected login fallback, got %q", p.DisplayName())
	}
	if p.DisplayBio() != NoBioPlaceholder {
		t.Fatalf("expected bio placeholder, got %q", p.DisplayBio())
	}
	if p.DisplayLocation() != NoLocationPlaceholder {
		t.Fatalf("expected location placeholder, got %q", p.DisplayLocation())
	}

	p.Name = "The Octocat"
	p.Bio = "I build things"
	p.Location = "San Francisco"

	if p.DisplayName() != "The Octocat" {
		t.Fatalf("unexpected name: %q", p.DisplayName())
	}
	if p.DisplayBio() != "I build things" {
		t.Fatalf("unexpected bio: %q", p.DisplayBio())
	}
	if p.DisplayLocation() != "San Francisco" {
		t.Fatalf("unexpected location: %q", p.DisplayLocation())
	}
}

func TestTopLanguages(t *testing.T) {
	p := &Profile{
		Languages: map[string]int{
			"Go":     120,
			"Python": 300,
			"Rust":   120,
			"Shell":  10,
		},
	}

	top := p.TopLanguages(3)
	want := []string{"Python", "Go", "Rust"}
	if len(top) != len(want) {
		t.Fatalf("expected %d languages, got %v", len(want), top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", top, want)
		}
	}

	if got := (&Profile{}).TopLanguages(5); len(got) != 0 {
		t.Fatalf("expected empty slice for empty languages, got %v", got)
	}
}

func TestReportByLocationUsesPlaceholders(t *testing.T) {
	list := &Candidates{
		Items: []*Scored{
			{Profile: Profile{Login: "a", Location: "Berlin"}, Score: 80},
			{Profile: Profile{Login: "b"}, Score: 10},
		},
	}

	report := list.ReportByLocation()
	if _, ok := report["Berlin"]; !ok {
		t.Fatalf("expected Berlin key in report")
	}
	entries, ok := report[NoLocationPlaceholder]
	if !ok {
		t.Fatalf("expected placeholder key for missing location")
	}
	if entries[0]["score"] != "10/100" {
		t.Fatalf("unexpected score rendering: %q", entries[0]["score"])
	}
}
