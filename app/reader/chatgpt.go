package reader

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/Semior001/newsreader/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
)

var (
	//go:embed data/system.txt
	systemPrompt string

	//go:embed data/prompt.tmpl
	headerPrompt string

	headerTmpl = template.Must(template.New("header").Parse(headerPrompt))
)

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// contextTokens is the size of the model context, request and response together.
const contextTokens = 4097

// ErrTooManyTokens is returned when the response budget leaves no room
// for the article.
var ErrTooManyTokens = errors.New("too many tokens")

// ChatGPT makes bullet points of articles and community posts with
// OpenAI chat completions.
type ChatGPT struct {
	log               *slog.Logger
	cl                OpenAIClient
	maxResponseTokens int
	summaries         cache.Cache[string, string]
}

// NewChatGPT creates new ChatGPT client, keeping at most cacheSize summaries.
func NewChatGPT(lg *slog.Logger, cl *http.Client, token string, maxResponseTokens, cacheSize int) *ChatGPT {
	config := openai.DefaultConfig(token)
	config.HTTPClient = cl

	return newChatGPT(lg, openai.NewClientWithConfig(config), maxResponseTokens, cacheSize)
}

func newChatGPT(lg *slog.Logger, cl OpenAIClient, maxResponseTokens, cacheSize int) *ChatGPT {
	return &ChatGPT{
		log:               lg,
		cl:                cl,
		maxResponseTokens: maxResponseTokens,
		summaries:         cache.NewCache[string, string]().WithLRU().WithMaxKeys(cacheSize),
	}
}

// CacheStat returns stats of the bullet points cache.
func (s *ChatGPT) CacheStat() cache.Stats { return s.summaries.Stat() }

// BulletPoints summarizes the article. Texts that do not fit into the
// model context are cut at the end.
func (s *ChatGPT) BulletPoints(ctx context.Context, article store.Article) (string, error) {
	key := summaryKey(article)
	if key != "" {
		if bp, ok := s.summaries.Get(key); ok {
			return bp, nil
		}
	}

	msgs, err := s.messages(article)
	if err != nil {
		return "", err
	}

	resp, err := s.cl.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT3Dot5Turbo,
		MaxTokens:   s.maxResponseTokens,
		Temperature: 0.2,
		Messages:    msgs,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	bp := bullets(resp.Choices[0].Message.Content)
	if bp == "" {
		return "", errors.New("empty summary in response")
	}

	s.log.DebugCtx(ctx, "article summarized",
		slog.String("key", key),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if key != "" {
		s.summaries.Set(key, bp, 0)
	}
	return bp, nil
}

type header struct {
	Community   bool
	Title       string
	Author      string
	Source      string
	Category    string
	Tag         string
	VideoLink   string
	Description string
}

func (s *ChatGPT) messages(a store.Article) ([]openai.ChatCompletionMessage, error) {
	h := header{
		Community:   a.Origin == store.OriginUserSubmitted,
		Title:       a.Title,
		Author:      a.Author,
		Category:    a.Category,
		Tag:         a.Tag,
		VideoLink:   a.VideoLink,
		Description: a.Description,
	}
	if !h.Community {
		h.Source = a.SourceName
	}

	buf := &strings.Builder{}
	if err := headerTmpl.Execute(buf, h); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	budget := contextTokens - s.maxResponseTokens - estimateTokens(systemPrompt) - estimateTokens(buf.String())
	// two words are left for the ellipsis and rounding
	words := budget*3/4 - 2
	if words <= 0 {
		return nil, ErrTooManyTokens
	}

	_, _ = buf.WriteString("\n\n")
	_, _ = buf.WriteString(cutWords(a.Content, words))

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: buf.String()},
	}, nil
}

// summaryKey identifies the summarized text, empty when the article
// has neither a link nor an id.
func summaryKey(a store.Article) string {
	switch {
	case a.URL != "":
		return a.URL
	case a.ID != "":
		return "id:" + a.ID
	default:
		return ""
	}
}

// estimateTokens roughly counts tokens of an english text, a token is
// about three quarters of a word.
func estimateTokens(s string) int { return len(strings.Fields(s))*4/3 + 1 }

func cutWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " ..."
}

// bullets brings the list to "- item" lines, whatever markers the model used.
func bullets(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•· ")
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 && i+1 < len(line) && line[i+1] == ' ' &&
			strings.Trim(line[:i], "0123456789") == "" {
			line = strings.TrimSpace(line[i+1:])
		}
		if line != "" {
			lines = append(lines, "- "+line)
		}
	}
	return strings.Join(lines, "\n")
}
