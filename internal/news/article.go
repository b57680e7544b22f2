package news

import "strings"

// Article is a single news summary, produced either by the generation
// provider or by feed ingestion. Title, Source and Summary are always set;
// the rest only when the article came from a real feed.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Summary     string `json:"summary"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Author      string `json:"author,omitempty"`
}

// Valid reports whether the article has the three required fields.
func (a Article) Valid() bool {
	return strings.TrimSpace(a.Title) != "" &&
		strings.TrimSpace(a.Source) != "" &&
		strings.TrimSpace(a.Summary) != ""
}

// SpeechText returns the text read aloud for this article.
func (a Article) SpeechText() string {
	return a.Title + ". " + a.Summary
}

// ValidateAll returns true only if the set is non-empty and every article
// is well-formed.
func ValidateAll(articles []Article) bool {
	if len(articles) == 0 {
		return false
	}
	for _, a := range articles {
		if !a.Valid() {
			return false
		}
	}
	return true
}
