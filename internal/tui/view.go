package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/irwanphan/voice-news-summary/internal/news"
)

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")

	if a.input.Focused() || len(a.articles) == 0 {
		b.WriteString(" " + a.input.View() + "\n")
		b.WriteString(a.renderSuggestions())
	}

	if a.loading {
		b.WriteString(fmt.Sprintf("\n %s searching...\n", a.spinner.View()))
	}

	if a.err != nil {
		b.WriteString("\n" + a.styles.errorBanner.Render("✗ "+a.err.Error()) + "\n")
	}
	if a.note != "" {
		b.WriteString("\n" + a.styles.cardMeta.Render(" "+a.note) + "\n")
	}

	if len(a.articles) > 0 && !a.loading {
		b.WriteString(a.renderResults())
	}

	b.WriteString("\n" + a.renderStatusBar())
	b.WriteString("\n" + a.renderHelp())
	return b.String()
}

func (a *App) renderHeader() string {
	title := a.styles.header.Render("Voice News")
	badge := ""
	switch {
	case a.cached:
		badge = a.styles.cachedBadge.Render(" ⚡ cached")
	case a.live:
		badge = a.styles.cardSource.Render(" ● live headlines")
	}
	theme := "dark"
	if !a.dark {
		theme = "light"
	}
	right := a.styles.headerBadge.Render(fmt.Sprintf("theme: %s", theme))
	return title + badge + "  " + right
}

func (a *App) renderSuggestions() string {
	var b strings.Builder
	if a.cfg != nil && len(a.cfg.QuickTopics) > 0 {
		b.WriteString("\n" + a.styles.panelTitle.Render("Quick Topics") + a.styles.cardMeta.Render(" (tab to cycle)") + "\n")
		for _, topic := range a.cfg.QuickTopics {
			b.WriteString(a.styles.panelItem.Render("• "+topic) + "\n")
		}
	}
	if len(a.recent) > 0 {
		b.WriteString("\n" + a.styles.panelTitle.Render("Recent Searches") + "\n")
		for _, topic := range a.recent {
			b.WriteString(a.styles.panelItem.Render("• "+topic) + "\n")
		}
	}
	return b.String()
}

func (a *App) renderResults() string {
	var b strings.Builder

	b.WriteString("\n" + a.styles.panelTitle.Render(fmt.Sprintf("News about %q", a.topic)) + "\n")
	for i, article := range a.articles {
		b.WriteString(a.renderCard(i, article) + "\n")
	}

	if len(a.similar) > 0 {
		b.WriteString(a.styles.panelTitle.Render("Similar Topics") + "\n")
		for _, s := range a.similar {
			b.WriteString(a.styles.panelItem.Render(fmt.Sprintf("• %s (%.0f%%)", s.Topic, s.Score*100)) + "\n")
		}
	}
	return b.String()
}

func (a *App) renderCard(i int, article news.Article) string {
	width := a.width - 4
	if width < 40 {
		width = 76
	}

	title := a.styles.cardTitle.Render(article.Title)
	if i == a.speakingAt {
		note := "♪ speaking"
		if a.speaker != nil && a.speaker.Paused() {
			note = "♪ paused"
		}
		title += "  " + a.styles.speakingNote.Render(note)
	}

	meta := a.styles.cardSource.Render(article.Source)
	if ts := relativeTime(article.PublishedAt); ts != "" {
		meta += a.styles.cardMeta.Render("  " + ts)
	}
	if article.Author != "" && article.Author != "Unknown" {
		meta += a.styles.cardMeta.Render("  by " + article.Author)
	}

	body := a.styles.cardBody.Width(width - 4).Render(article.Summary)

	lines := []string{title, meta, body}
	if article.URL != "" {
		lines = append(lines, a.styles.cardMeta.Render(article.URL))
	}

	card := a.styles.card
	if i == a.cursor {
		card = a.styles.cardSelected
	}
	return card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("%d articles", len(a.articles)),
		fmt.Sprintf("%d total searches", a.analytics.TotalRequests),
	}
	if a.analytics.AverageResponseTimeMS > 0 {
		parts = append(parts, fmt.Sprintf("avg %dms", a.analytics.AverageResponseTimeMS))
	}
	if len(a.analytics.PopularTopics) > 0 {
		parts = append(parts, "trending: "+a.analytics.PopularTopics[0].Topic)
	}
	return a.styles.statusBar.Render(strings.Join(parts, " │ "))
}

func (a *App) renderHelp() string {
	if a.input.Focused() {
		return a.styles.help.Render("enter search · tab quick topic · ctrl+c quit")
	}
	return a.styles.help.Render("/ new search · j/k move · enter speak · p pause · s stop · o open · t theme · q quit")
}

func relativeTime(publishedAt string) string {
	if publishedAt == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
