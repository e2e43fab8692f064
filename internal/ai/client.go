// Package ai talks to an OpenAI-compatible chat completion endpoint (Groq by
// default) for coaching replies and practice content.
package ai

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/pkg/models"
)

// DefaultBaseURL is Groq's OpenAI-compatible API
const DefaultBaseURL = "https://api.groq.com/openai/v1/"

// DefaultModel is used when no model is configured
const DefaultModel = "llama-3.1-8b-instant"

// Client generates coach replies and practice content
type Client struct {
	client oai.Client
	model  string

	mu  sync.Mutex
	rnd *rand.Rand
}

type config struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
}

// Option configures a Client
type Option func(*config)

// WithBaseURL overrides DefaultBaseURL
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxRetries sets how often failed requests are retried
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// New creates a client for model
func New(apiKey, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{baseURL: DefaultBaseURL, maxRetries: 2}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}

	return &Client{
		client: oai.NewClient(reqOpts...),
		model:  model,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Reply answers the learner as coach or roleplay partner. It satisfies the
// coach's dialogue collaborator.
func (c *Client) Reply(ctx context.Context, text, history string, mode models.ContextMode, role string) (string, error) {
	var prompt string
	if mode == models.ContextRoleplay {
		prompt = roleplayPrompt(text, history, role, c.pick(roleplayHints))
	} else {
		prompt = conversationPrompt(text, history, c.pick(conversationHints))
	}
	return c.complete(ctx, prompt, 0.7, 0.9, 0)
}

// GenerateSentence creates a repeat-after-me sentence
func (c *Client) GenerateSentence(ctx context.Context, req practice.SentenceRequest) (string, error) {
	c.mu.Lock()
	seed := c.rnd.Intn(100)
	c.mu.Unlock()

	out, err := c.complete(ctx, sentencePrompt(req, seed), 0.95, 0.95, 60)
	if err != nil {
		return "", err
	}
	sentence := practice.CleanSentence(out)
	if sentence == "" {
		return "", fmt.Errorf("empty sentence generated")
	}
	return sentence, nil
}

// WordUsage creates an example sentence for a spelling word
func (c *Client) WordUsage(ctx context.Context, word string) (string, error) {
	out, err := c.complete(ctx, usagePrompt(word, c.pick(usagePatterns)), 0.8, 0, 50)
	if err != nil {
		return "", err
	}
	return practice.StripQuotes(out), nil
}

// WordMeaning explains a word in child-friendly terms
func (c *Client) WordMeaning(ctx context.Context, word string) (string, error) {
	return c.complete(ctx, meaningPrompt(word), 0.4, 0, 200)
}

func (c *Client) complete(ctx context.Context, prompt string, temperature, topP float64, maxTokens int) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)},
		Temperature: param.NewOpt(temperature),
	}
	if topP > 0 {
		params.TopP = param.NewOpt(topP)
	}
	if maxTokens > 0 {
		params.MaxTokens = param.NewOpt(int64(maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) pick(options []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rnd.Intn(len(options))]
}
