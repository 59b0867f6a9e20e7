package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

// GeminiConfig selects the backend and model. Vertex needs Project and
// Location; the Gemini API needs APIKey.
type GeminiConfig struct {
	Vertex   bool
	APIKey   string
	Project  string
	Location string
	Model    string
	Timeout  time.Duration
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient creates an LLMClient based on Gemini, either through the
// Gemini API or Vertex AI.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Vertex {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("vertex backend needs project and location")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini backend needs an API key")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
		timeout:   timeout,
	}, nil
}

var _ domain.LLMClient = (*GeminiClient)(nil)

// Complete implements domain.LLMClient.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	observability.RecordGatewayCall("complete", time.Since(start), err)
	if err != nil {
		return "", gatewayError("complete", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: complete returned empty text", domain.ErrGatewayUnavailable)
	}
	return text, nil
}

// CompleteStructured implements domain.LLMClient using JSON response mode.
func (g *GeminiClient) CompleteStructured(ctx context.Context, prompt string, schema domain.Schema) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
	}

	start := time.Now()
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	observability.RecordGatewayCall("complete_structured", time.Since(start), err)
	if err != nil {
		return nil, gatewayError("complete_structured", err)
	}

	raw := []byte(res.Text())
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	return raw, nil
}

// OpenChat implements domain.LLMClient with a genai chat session.
func (g *GeminiClient) OpenChat(ctx context.Context, history []domain.Turn, systemInstruction string) (domain.ChatSession, error) {
	contents, err := toContents(history)
	if err != nil {
		return nil, err
	}

	var cfg *genai.GenerateContentConfig
	if systemInstruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		}
	}

	chat, err := g.client.Chats.Create(ctx, g.modelName, cfg, contents)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return &geminiChat{chat: chat, timeout: g.timeout}, nil
}

type geminiChat struct {
	chat    *genai.Chat
	timeout time.Duration
}

func (c *geminiChat) Send(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: message})
	observability.RecordGatewayCall("chat", time.Since(start), err)
	if err != nil {
		return "", gatewayError("chat", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: chat returned empty text", domain.ErrGatewayUnavailable)
	}
	return text, nil
}

// History returns the comprehensive history so the seed turns and every
// exchanged pair are kept, even when a reply was filtered.
func (c *geminiChat) History() ([]domain.Turn, error) {
	return fromContents(c.chat.History(false))
}

func toGenaiSchema(schema domain.Schema) *genai.Schema {
	nullable := true
	props := make(map[string]*genai.Schema, len(schema.Fields))
	order := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
			Enum:        f.Enum,
			Nullable:    &nullable,
		}
		order = append(order, f.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: order,
	}
}

func gatewayError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", domain.ErrGatewayUnavailable, op)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrGatewayUnavailable, op, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrGatewayUnavailable, op, err)
}
