package feed

import (
	"math"
	"strings"
	"time"
	"unicode"
)

const (
	weightKeywords = 0.6
	weightRecency  = 0.4
)

// relevance scores an ingested article against the searched topic
// (0.0-1.0). Keyword density dominates; recency breaks ties between
// equally relevant items.
func relevance(topic, title, description string, published time.Time) float64 {
	return keywordScore(topic, title, description)*weightKeywords +
		recencyScore(published)*weightRecency
}

// recencyScore returns exponential decay: 1.0 at publish, ~0.5 at 24h,
// ~0.1 at 72h.
func recencyScore(published time.Time) float64 {
	if published.IsZero() {
		return 0.3
	}
	hours := time.Since(published).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Exp(-hours / 34.6)
}

// keywordScore measures how much of the topic shows up in the article
// text: the fraction of topic terms found, weighted toward title hits.
func keywordScore(topic, title, description string) float64 {
	terms := topicTerms(topic)
	if len(terms) == 0 {
		return 0
	}

	title = strings.ToLower(title)
	description = strings.ToLower(description)

	var score float64
	for _, term := range terms {
		switch {
		case strings.Contains(title, term):
			score += 1.0
		case strings.Contains(description, term):
			score += 0.5
		}
	}
	return score / float64(len(terms))
}

// topicTerms splits a topic into lower-cased terms, dropping short filler
// words like "in" and "the".
func topicTerms(topic string) []string {
	fields := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	var terms []string
	for _, f := range fields {
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}
