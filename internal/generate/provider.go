package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/news"
)

// Provider turns a prompt into a set of generated articles. Implementations
// must enforce the output contract: a non-empty JSON array of objects with
// title, source and summary.
type Provider interface {
	Articles(ctx context.Context, prompt string) ([]news.Article, error)
}

const (
	genTemperature = 0.8
	genTopP        = 0.95
)

// NewProvider creates a Provider from the given AI config.
func NewProvider(cfg *config.AIConfig, apiKey string) (Provider, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cfg.Provider {
	case "gemini":
		model := cfg.Model
		if model == "" {
			model = "gemini-2.5-flash"
		}
		return &geminiProvider{apiKey: apiKey, model: model, client: client,
			baseURL: "https://generativelanguage.googleapis.com/v1beta"}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openaiProvider{apiKey: apiKey, model: model, client: client,
			baseURL: "https://api.openai.com/v1"}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: gemini, openai)", cfg.Provider)
	}
}

// parseArticles decodes and validates a provider's JSON payload. Code
// fences around the array are tolerated; anything else is an error.
func parseArticles(text string) ([]news.Article, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var articles []news.Article
	if err := json.Unmarshal([]byte(text), &articles); err != nil {
		return nil, fmt.Errorf("API did not return a valid array of articles: %w", err)
	}
	if !news.ValidateAll(articles) {
		return nil, fmt.Errorf("API did not return a valid array of articles")
	}
	return articles, nil
}

// --- Gemini provider ---

type geminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// newsSchema constrains the Gemini response to the article array shape.
var newsSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"title": {"type": "STRING", "description": "A concise and engaging headline for the news article."},
			"source": {"type": "STRING", "description": "A fictional but plausible news source name."},
			"summary": {"type": "STRING", "description": "A detailed summary of the article, about 3-4 sentences long."}
		},
		"required": ["title", "source", "summary"]
	}
}`)

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP"`
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *geminiProvider) Articles(ctx context.Context, prompt string) ([]news.Article, error) {
	body, _ := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:      genTemperature,
			TopP:             genTopP,
			ResponseMimeType: "application/json",
			ResponseSchema:   newsSchema,
		},
	})

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini API %d: %s", resp.StatusCode, string(b))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}
	return parseArticles(gr.Candidates[0].Content.Parts[0].Text)
}

// --- OpenAI provider ---

type openaiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const openaiSystemPrompt = `You generate news article summaries. Respond with ONLY a JSON array of objects, each with exactly these string fields: "title", "source", "summary". No prose, no markdown fences.`

func (o *openaiProvider) Articles(ctx context.Context, prompt string) ([]news.Article, error) {
	body, _ := json.Marshal(openaiRequest{
		Model: o.model,
		Messages: []openaiMessage{
			{Role: "system", Content: openaiSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: genTemperature,
		TopP:        genTopP,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, err
	}
	if len(or.Choices) == 0 {
		return nil, fmt.Errorf("empty openai response")
	}
	return parseArticles(or.Choices[0].Message.Content)
}
