package tui

import (
	"github.com/irwanphan/voice-news-summary/internal/news"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

// searchDoneMsg carries the answer to one submitted topic. The token
// pins it to the submission that started it; anything but the latest
// token is discarded on arrival.
type searchDoneMsg struct {
	token    int
	topic    string
	articles []news.Article
	cached   bool
	similar  []store.SearchResult
	live     bool // ingested headlines, not generated articles
	note     string
}

type searchErrMsg struct {
	token int
	err   error
}

type analyticsMsg struct {
	analytics store.Analytics
}

type recentTopicsMsg struct {
	topics []string
}

type speechDoneMsg struct{}

type openErrMsg struct {
	err error
}
