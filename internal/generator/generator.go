// Package generator synthesizes self-contained HTML documents from job
// briefs via the Anthropic API.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// ErrInvalidDocument indicates the model returned output that is not a
// structurally complete HTML document.
var ErrInvalidDocument = errors.New("generated document failed validation")

// Generator wraps the Anthropic SDK client with token tracking.
type Generator struct {
	inner   anthropic.Client
	model   anthropic.Model
	tracker *TokenTracker
}

// Config contains configuration for creating a new Generator.
type Config struct {
	// Model is the Claude model to use (e.g., anthropic.ModelClaudeSonnet4_20250514).
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// New creates a new Generator.
func New(cfg Config) (*Generator, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		// AWS Bedrock path
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		// Traditional API key path
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	inner := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	// Translate model name for Bedrock
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &Generator{
		inner:   inner,
		model:   model,
		tracker: NewTokenTracker(),
	}, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock
// inference profile format: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}

	// Not in map: might already be Bedrock format or a custom model.
	return model
}

// Model returns the configured model name.
func (g *Generator) Model() anthropic.Model {
	return g.model
}

// Tracker returns the token tracker for this generator.
func (g *Generator) Tracker() *TokenTracker {
	return g.tracker
}

// Generate synthesizes a complete HTML document for the given brief and
// attachments. The returned document has passed structural validation; any
// other outcome is an error that aborts the calling job.
func (g *Generator) Generate(ctx context.Context, brief string, attachments []models.Attachment) (string, error) {
	prompt := buildPrompt(brief, attachments)

	resp, err := g.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   4096,
		Temperature: anthropic.Float(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesis request: %w", err)
	}

	g.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	log.Printf("[generator] synthesis call complete (in=%d out=%d tokens)",
		resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	doc := stripFences(strings.TrimSpace(sb.String()))
	if doc == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidDocument)
	}

	if err := ValidateDocument(doc); err != nil {
		return "", err
	}

	return doc, nil
}

// ValidateDocument checks that a generated document is a plausible complete
// HTML page: non-trivial length and the basic structural tags present.
func ValidateDocument(doc string) error {
	if len(strings.TrimSpace(doc)) < 50 {
		return fmt.Errorf("%w: document too short", ErrInvalidDocument)
	}

	lower := strings.ToLower(doc)
	for _, tag := range []string{"<html", "<head", "<body", "</html>"} {
		if !strings.Contains(lower, tag) {
			return fmt.Errorf("%w: missing %s tag", ErrInvalidDocument, tag)
		}
	}

	return nil
}

// stripFences unwraps output the model wrapped in markdown code fences.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}

	// Drop the opening fence line (``` or ```html) and a trailing fence.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// TokenTracker tracks token usage across synthesis calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of synthesis calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
