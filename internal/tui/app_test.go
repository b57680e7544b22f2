package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/news"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string, string) (*generate.Result, error) {
	return nil, errors.New("not used")
}

func testApp() *App {
	return NewApp(RunOpts{
		Cfg:       &config.Config{QuickTopics: []string{"ai news", "space news"}},
		Generator: stubGenerator{},
	})
}

func articlesFor(title string) []news.Article {
	return []news.Article{{Title: title, Source: "S", Summary: "Sum"}}
}

func TestStaleResponseDiscarded(t *testing.T) {
	a := testApp()

	// Two searches in flight at once; the first finishes last. submit is
	// driven directly because the input path serializes submissions.
	a.submit("first topic")
	firstToken := a.token
	a.submit("second topic")
	secondToken := a.token

	if secondToken <= firstToken {
		t.Fatalf("tokens must increase: first=%d second=%d", firstToken, secondToken)
	}

	model, _ := a.Update(searchDoneMsg{token: secondToken, topic: "second topic", articles: articlesFor("fresh")})
	a = model.(*App)

	// The slow first response arrives afterwards and must be dropped.
	model, _ = a.Update(searchDoneMsg{token: firstToken, topic: "first topic", articles: articlesFor("stale")})
	a = model.(*App)

	if a.topic != "second topic" {
		t.Errorf("stale response overwrote the topic: %q", a.topic)
	}
	if len(a.articles) != 1 || a.articles[0].Title != "fresh" {
		t.Errorf("stale response overwrote the articles: %+v", a.articles)
	}
	if a.loading {
		t.Error("latest response should have cleared the loading state")
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	a := testApp()

	a.submit("first")
	firstToken := a.token
	a.submit("second")
	secondToken := a.token

	if secondToken <= firstToken {
		t.Fatalf("tokens must increase: first=%d second=%d", firstToken, secondToken)
	}

	model, _ := a.Update(searchDoneMsg{token: secondToken, topic: "second", articles: articlesFor("fresh")})
	a = model.(*App)

	model, _ = a.Update(searchErrMsg{token: firstToken, err: errors.New("boom")})
	a = model.(*App)

	if a.err != nil {
		t.Errorf("stale error surfaced: %v", a.err)
	}
	if a.topic != "second" || len(a.articles) != 1 || a.articles[0].Title != "fresh" {
		t.Errorf("stale error disturbed the latest result: topic=%q articles=%+v", a.topic, a.articles)
	}
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	a := testApp()

	a.input.SetValue("topic")
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(*App)
	token := a.token

	// Input keeps focus-like state only after blur; force a resubmit path.
	a.input.Focus()
	a.input.SetValue("another")
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(*App)

	if a.token != token {
		t.Errorf("resubmission while loading must not start a new search: token %d -> %d", token, a.token)
	}
}

func TestThemeToggle(t *testing.T) {
	a := testApp()
	a.input.Blur()
	a.articles = articlesFor("x")

	if !a.dark {
		t.Fatal("default theme should be dark")
	}
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	a = model.(*App)
	if a.dark {
		t.Error("theme key did not switch to the light palette")
	}
}

func TestQuickTopicCycle(t *testing.T) {
	a := testApp()

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(*App)
	if got := a.input.Value(); got != "ai news" {
		t.Errorf("first tab = %q, want %q", got, "ai news")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(*App)
	if got := a.input.Value(); got != "space news" {
		t.Errorf("second tab = %q, want %q", got, "space news")
	}
}
