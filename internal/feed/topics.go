package feed

import "strings"

// Category groups sources by subject so a topic only hits the feeds
// likely to mention it.
type Category string

const (
	Technology Category = "technology"
	Science    Category = "science"
	Health     Category = "health"
	Business   Category = "business"
	General    Category = ""
)

var categoryKeywords = map[Category][]string{
	Technology: {
		"ai", "artificial intelligence", "technology", "software", "robot",
		"computer", "quantum", "chip", "internet", "cyber", "crypto", "startup",
	},
	Science: {
		"science", "research", "space", "physics", "astronomy", "biology",
		"climate", "chemistry", "telescope", "discovery", "experiment",
	},
	Health: {
		"health", "medical", "medicine", "disease", "vaccine", "drug",
		"hospital", "therapy", "cancer", "mental health", "nutrition",
	},
	Business: {
		"business", "economy", "market", "finance", "stocks", "trade",
		"inflation", "investment", "banking", "earnings",
	},
}

// CategoryFor picks the category whose keywords best match the topic.
// Ties go to the earlier category in canonical order; no match is General,
// which selects every source.
func CategoryFor(topic string) Category {
	topic = strings.ToLower(topic)

	best := General
	bestHits := 0
	for _, c := range []Category{Technology, Science, Health, Business} {
		hits := 0
		for _, kw := range categoryKeywords[c] {
			if containsWord(topic, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = c
			bestHits = hits
		}
	}
	return best
}

// containsWord matches kw as whole words inside s, so "ai" does not fire
// on "sustainable".
func containsWord(s, kw string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		startOK := start == 0 || !isLetter(s[start-1])
		endOK := end == len(s) || !isLetter(s[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
		if idx >= len(s) {
			return false
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
