package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Request is a single prompt sent to the model.
type Request struct {
	Task   Task
	System string
	Prompt string
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent returns the complete response text.
	GenerateContent(ctx context.Context, req Request) (string, error)
	// StreamContent calls onChunk for every piece of text as it arrives and
	// returns the concatenated response. An error from onChunk stops the stream.
	StreamContent(ctx context.Context, req Request, onChunk func(string) error) (string, error)
	// GetModel returns the model name used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(req Request) (*genai.GenerativeModel, error) {
	settings := c.config.Settings(req.Task)
	modelName := c.config.GetModel(settings.Tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", settings.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(settings.Temperature)
	if settings.MaxTokens > 0 {
		model.SetMaxOutputTokens(settings.MaxTokens)
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	return model, nil
}

// GenerateContent generates text content for the request's task
func (c *GeminiClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	model, err := c.model(req)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// StreamContent streams text content for the request's task
func (c *GeminiClient) StreamContent(ctx context.Context, req Request, onChunk func(string) error) (string, error) {
	model, err := c.model(req)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	iter := model.GenerateContentStream(ctx, genai.Text(req.Prompt))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("failed to stream content: %w", err)
		}

		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return full.String(), err
			}
		}
	}

	if full.Len() == 0 {
		return "", fmt.Errorf("no text in streamed response")
	}
	return full.String(), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return text, nil
}
