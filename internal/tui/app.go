// Package tui is the interactive terminal front end: type a topic, read
// the generated briefing, have it read aloud.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/irwanphan/voice-news-summary/internal/browser"
	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/news"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

// Generator answers topic searches.
type Generator interface {
	Generate(ctx context.Context, topic, sessionID string) (*generate.Result, error)
}

// Headlines supplies real ingested articles when generation fails.
type Headlines interface {
	Articles(ctx context.Context, topic string, limit int) []news.Article
}

// Speaker reads article text aloud.
type Speaker interface {
	Speak(text string) error
	Pause() error
	Resume() error
	Stop()
	Speaking() bool
	Paused() bool
	Done() <-chan struct{}
	Shutdown()
}

// Offline is the local sqlite journal: recent topics plus a last-known
// copy of each result for when both the generator and the feeds are
// unreachable. Nil-able; the TUI degrades gracefully without it.
type Offline interface {
	RememberTopic(topic string) error
	RecentTopics(limit int) ([]string, error)
	SaveResult(topic string, articles []news.Article) error
	Result(topic string, maxAge time.Duration) ([]news.Article, bool)
}

// AnalyticsSource feeds the footer counters.
type AnalyticsSource interface {
	Analytics(ctx context.Context) store.Analytics
}

type App struct {
	cfg       *config.Config
	generator Generator
	headlines Headlines
	speaker   Speaker
	offline   Offline
	stats     AnalyticsSource
	sessionID string

	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	topic    string
	articles []news.Article
	cursor   int
	cached   bool
	live     bool
	similar  []store.SearchResult
	recent   []string
	note     string

	// token increments on every submission; a response carrying an
	// older token lost the race and is dropped.
	token      int
	loading    bool
	speakingAt int

	analytics store.Analytics
	err       error

	dark   bool
	styles styles
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg       *config.Config
	Generator Generator
	Headlines Headlines
	Speaker   Speaker
	Offline   Offline
	Stats     AnalyticsSource
	SessionID string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Enter a news topic..."
	ti.Prompt = "> "
	ti.CharLimit = 120
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	a := &App{
		cfg:        opts.Cfg,
		generator:  opts.Generator,
		headlines:  opts.Headlines,
		speaker:    opts.Speaker,
		offline:    opts.Offline,
		stats:      opts.Stats,
		sessionID:  opts.SessionID,
		input:      ti,
		spinner:    sp,
		speakingAt: -1,
		dark:       true,
	}
	a.applyTheme()
	return a
}

func (a *App) applyTheme() {
	p := lightPalette
	if a.dark {
		p = darkPalette
	}
	a.styles = newStyles(p)
	a.input.Prompt = a.styles.inputPrompt.Render("> ")
	a.spinner.Style = a.styles.spinner
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadRecentsCmd(), a.loadAnalyticsCmd())
}

func (a *App) submit(topic string) tea.Cmd {
	a.token++
	a.loading = true
	a.err = nil
	a.note = ""

	token := a.token
	gen := a.generator
	heads := a.headlines
	offline := a.offline
	session := a.sessionID

	search := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res, err := gen.Generate(ctx, topic, session)
		if err == nil {
			return searchDoneMsg{
				token:    token,
				topic:    res.Topic,
				articles: res.Articles,
				cached:   res.Cached,
				similar:  res.Similar,
			}
		}
		if heads != nil {
			if articles := heads.Articles(ctx, topic, 5); len(articles) > 0 {
				return searchDoneMsg{
					token:    token,
					topic:    topic,
					articles: articles,
					live:     true,
					note:     fmt.Sprintf("generation failed (%v), showing live headlines", err),
				}
			}
		}
		if offline != nil {
			if articles, ok := offline.Result(topic, 24*time.Hour); ok {
				return searchDoneMsg{
					token:    token,
					topic:    topic,
					articles: articles,
					live:     true,
					note:     "offline, showing your last saved result for this topic",
				}
			}
		}
		return searchErrMsg{token: token, err: err}
	}
	return tea.Batch(search, a.spinner.Tick)
}

func (a *App) loadRecentsCmd() tea.Cmd {
	if a.offline == nil {
		return nil
	}
	offline := a.offline
	return func() tea.Msg {
		topics, err := offline.RecentTopics(5)
		if err != nil {
			return nil
		}
		return recentTopicsMsg{topics: topics}
	}
}

func (a *App) loadAnalyticsCmd() tea.Cmd {
	if a.stats == nil {
		return nil
	}
	stats := a.stats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return analyticsMsg{analytics: stats.Analytics(ctx)}
	}
}

func (a *App) waitForSpeechCmd() tea.Cmd {
	done := a.speaker.Done()
	return func() tea.Msg {
		<-done
		return speechDoneMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchDoneMsg:
		if msg.token != a.token {
			return a, nil
		}
		a.loading = false
		a.topic = msg.topic
		a.articles = msg.articles
		a.cached = msg.cached
		a.live = msg.live
		a.similar = msg.similar
		a.note = msg.note
		a.cursor = 0
		if a.offline != nil {
			offline := a.offline
			topic := msg.topic
			articles := msg.articles
			fromStore := msg.live
			return a, tea.Batch(func() tea.Msg {
				offline.RememberTopic(topic)
				if !fromStore {
					offline.SaveResult(topic, articles)
				}
				return nil
			}, a.loadRecentsCmd(), a.loadAnalyticsCmd())
		}
		return a, a.loadAnalyticsCmd()

	case searchErrMsg:
		if msg.token != a.token {
			return a, nil
		}
		a.loading = false
		a.err = msg.err
		return a, nil

	case recentTopicsMsg:
		a.recent = msg.topics
		return a, nil

	case analyticsMsg:
		a.analytics = msg.analytics
		return a, nil

	case speechDoneMsg:
		if a.speaker != nil && !a.speaker.Speaking() {
			a.speakingAt = -1
		}
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.shutdownSpeech()
		return a, tea.Quit
	}

	if a.input.Focused() {
		switch msg.String() {
		case "enter":
			topic := a.input.Value()
			if topic == "" || a.loading {
				return a, nil
			}
			a.input.Blur()
			return a, a.submit(topic)
		case "esc":
			if len(a.articles) > 0 {
				a.input.Blur()
			}
			return a, nil
		case "tab":
			a.cycleQuickTopic()
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		a.shutdownSpeech()
		return a, tea.Quit
	case "/", "i":
		a.input.Focus()
		a.input.SetValue("")
		return a, textinput.Blink
	case "j", "down":
		if a.cursor < len(a.articles)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "enter", " ":
		return a, a.playSelected()
	case "p":
		return a, a.togglePause()
	case "s":
		if a.speaker != nil {
			a.speaker.Stop()
			a.speakingAt = -1
		}
		return a, nil
	case "o":
		if a.cursor < len(a.articles) && a.articles[a.cursor].URL != "" {
			url := a.articles[a.cursor].URL
			return a, func() tea.Msg {
				if err := browser.Open(url); err != nil {
					return openErrMsg{err: err}
				}
				return nil
			}
		}
		return a, nil
	case "t":
		a.dark = !a.dark
		a.applyTheme()
		return a, nil
	case "r":
		return a, tea.Batch(a.loadRecentsCmd(), a.loadAnalyticsCmd())
	}
	return a, nil
}

func (a *App) cycleQuickTopic() {
	if a.cfg == nil || len(a.cfg.QuickTopics) == 0 {
		return
	}
	current := a.input.Value()
	next := a.cfg.QuickTopics[0]
	for i, qt := range a.cfg.QuickTopics {
		if qt == current {
			next = a.cfg.QuickTopics[(i+1)%len(a.cfg.QuickTopics)]
			break
		}
	}
	a.input.SetValue(next)
	a.input.CursorEnd()
}

func (a *App) playSelected() tea.Cmd {
	if a.speaker == nil || a.cursor >= len(a.articles) {
		return nil
	}
	article := a.articles[a.cursor]
	if err := a.speaker.Speak(article.SpeechText()); err != nil {
		a.err = err
		return nil
	}
	a.speakingAt = a.cursor
	return a.waitForSpeechCmd()
}

func (a *App) togglePause() tea.Cmd {
	if a.speaker == nil || !a.speaker.Speaking() {
		return nil
	}
	var err error
	if a.speaker.Paused() {
		err = a.speaker.Resume()
	} else {
		err = a.speaker.Pause()
	}
	if err != nil {
		a.err = err
	}
	return nil
}

func (a *App) shutdownSpeech() {
	if a.speaker != nil {
		a.speaker.Shutdown()
	}
}
