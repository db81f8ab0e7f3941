package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultModel       = "models/gemini-1.5-flash"
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 10 * time.Second

	// IntentUnknown is the sentinel returned when intent classification
	// fails; intent is best-effort and never blocks extraction.
	IntentUnknown = "Unknown"
)

type Config struct {
	Model       string
	MaxAttempts int           // total attempts on quota exhaustion
	BaseDelay   time.Duration // first backoff delay, doubled each retry
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	return c
}

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client talks to the generative model service, retrying quota-exhaustion
// failures with exponential backoff.
type Client struct {
	gen         Generator
	genaiClient *genai.Client // nil when built from a custom Generator
	maxAttempts int
	baseDelay   time.Duration
}

// NewClient builds a Gemini-backed client.
func NewClient(ctx context.Context, apiKey string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}

	model := gc.GenerativeModel(cfg.Model)
	model.SetTemperature(0)
	model.SetTopP(1)
	model.SetTopK(1)
	model.SetMaxOutputTokens(1024)

	return &Client{
		gen:         &geminiGenerator{model: model},
		genaiClient: gc,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
	}, nil
}

// NewClientWithGenerator builds a client around any Generator. Used by
// tests and offline runs.
func NewClientWithGenerator(gen Generator, cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{gen: gen, maxAttempts: cfg.MaxAttempts, baseDelay: cfg.BaseDelay}
}

func (c *Client) Close() error {
	if c.genaiClient != nil {
		return c.genaiClient.Close()
	}
	return nil
}

// Extract sends document text through the extraction template and returns
// the model's raw reply plus token estimates. Empty text short-circuits
// without a model call.
func (c *Client) Extract(ctx context.Context, content string) (string, Usage, error) {
	if strings.TrimSpace(content) == "" {
		return "", Usage{}, nil
	}

	prompt := BuildExtractionPrompt(content)
	usage := Usage{InputTokens: EstimateTokens(prompt)}

	raw, err := c.generateWithRetry(ctx, prompt)
	if err != nil {
		return "", usage, err
	}
	raw = strings.TrimSpace(raw)
	usage.OutputTokens = EstimateTokens(raw)
	return raw, usage, nil
}

// DetectIntent classifies the one-line intent of email content. A single
// attempt; any failure yields IntentUnknown.
func (c *Client) DetectIntent(ctx context.Context, content string) string {
	out, err := c.gen.Generate(ctx, BuildIntentPrompt(content))
	if err != nil {
		log.Printf("Intent detection failed: %v", err)
		return IntentUnknown
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return IntentUnknown
	}
	return out
}

func (c *Client) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var result string
	var lastQuotaErr error
	attempts := 0

	op := func() error {
		attempts++
		out, err := c.gen.Generate(ctx, prompt)
		if err != nil {
			if isQuotaExhausted(err) {
				lastQuotaErr = err
				return err
			}
			return backoff.Permanent(&ModelError{Err: err})
		}
		result = out
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = c.baseDelay * time.Duration(1<<uint(c.maxAttempts))
	bo.MaxElapsedTime = 0 // the attempt count is the only cap

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxAttempts-1)), ctx))
	if err != nil {
		var merr *ModelError
		if errors.As(err, &merr) {
			return "", merr
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &QuotaError{Attempts: attempts, Err: lastQuotaErr}
	}
	return result, nil
}

// isQuotaExhausted recognizes the model service's rate/usage-limit
// rejection in both its HTTP and gRPC shapes.
func isQuotaExhausted(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	return false
}

type geminiGenerator struct {
	model *genai.GenerativeModel
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}
