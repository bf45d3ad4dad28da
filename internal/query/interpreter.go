// Package query turns a free-text hiring requirement into structured
// search parameters. Interpretation never fails: when nothing useful can
// be extracted the whole requirement becomes the keyword list.
package query

import (
	"regexp"
	"strings"

	"github.com/sphynx-hq/sphynx/internal/github"
)

// locationPattern matches an explicit location phrase such as
// "from Berlin", "based in New York" or "located in San Francisco".
var locationPattern = regexp.MustCompile(`(?i)\b(?:from|based in|located in|living in)\s+([\p{L}][\p{L} .'-]*)`)

// locationStopWords terminate a location phrase when it runs into the
// rest of the sentence.
var locationStopWords = map[string]bool{
	"with": true, "and": true, "who": true, "that": true, "for": true,
	"or": true, "having": true, "using": true,
}

// stopWords are dropped from the keyword list. Kept deliberately short;
// unknown words are more useful in the search query than absent.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"with": true, "in": true, "of": true, "for": true, "from": true,
	"to": true, "who": true, "is": true, "are": true, "on": true,
	"experience": true, "experienced": true, "looking": true,
	"based": true, "located": true, "living": true,
}

// languageNames maps lowercase tokens to canonical search-qualifier
// names understood by the directory search API.
var languageNames = map[string]string{
	"go": "Go", "golang": "Go",
	"python":     "Python",
	"java":       "Java",
	"javascript": "JavaScript", "js": "JavaScript",
	"typescript": "TypeScript", "ts": "TypeScript",
	"rust": "Rust",
	"c++":  "C++", "cpp": "C++",
	"c#": "C#", "csharp": "C#",
	"ruby":    "Ruby",
	"php":     "PHP",
	"swift":   "Swift",
	"kotlin":  "Kotlin",
	"scala":   "Scala",
	"haskell": "Haskell",
	"elixir":  "Elixir",
	"clojure": "Clojure",
	"dart":    "Dart",
	"lua":     "Lua",
	"perl":    "Perl",
}

// Interpret derives search parameters from the requirement text.
func Interpret(requirement string) *github.SearchParams {
	requirement = strings.TrimSpace(requirement)

	location, withoutLocation := extractLocation(requirement)
	language := extractLanguage(withoutLocation)
	keywords := extractKeywords(withoutLocation, language)

	if len(keywords) == 0 {
		keywords = []string{requirement}
	}

	return &github.SearchParams{
		Keywords: keywords,
		Location: location,
		Language: language,
	}
}

func extractLocation(text string) (location, remainder string) {
	match := locationPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return "", text
	}

	phrase := text[match[2]:match[3]]
	words := strings.Fields(phrase)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if locationStopWords[strings.ToLower(word)] {
			break
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return "", text
	}

	// The capture is greedy and may run past the location into the rest
	// of the sentence; only the kept words are cut out of the remainder.
	end := 0
	for _, word := range kept {
		idx := strings.Index(phrase[end:], word)
		end += idx + len(word)
	}

	location = strings.Join(kept, " ")
	remainder = text[:match[0]] + " " + text[match[2]+end:]
	return location, remainder
}

func extractLanguage(text string) string {
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ",.;:!?")
		if name, ok := languageNames[token]; ok {
			return name
		}
	}
	return ""
}

func extractKeywords(text, language string) []string {
	langLower := strings.ToLower(language)
	seen := make(map[string]bool)
	keywords := make([]string, 0)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ",.;:!?()\"'")
		if token == "" || stopWords[token] || seen[token] {
			continue
		}
		if name, ok := languageNames[token]; ok && strings.ToLower(name) == langLower {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}

	return keywords
}
