package agentflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

const summaryInstruction = "Summarize the following prior interactions between a client and our law firm's " +
	"onboarding assistant in one paragraph. Retain every legally relevant fact: parties, dates, amounts, " +
	"requested services and the departments involved. Omit greetings and small talk."

// EmptySummaryNote stands in for a blank model summary so the interaction
// still caches a non-empty value.
const EmptySummaryNote = "This client has prior interactions with the firm, but no summary of them is available."

// Tokenizer splits text into model tokens.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Summarizer condenses a client's earlier interactions into prose.
type Summarizer struct {
	llm       domain.LLMClient
	tokenizer Tokenizer
	maxTokens int
}

// NewSummarizer builds a summarizer. With a nil tokenizer or maxTokens <= 0
// the input is sent whole.
func NewSummarizer(llm domain.LLMClient, tokenizer Tokenizer, maxTokens int) *Summarizer {
	return &Summarizer{llm: llm, tokenizer: tokenizer, maxTokens: maxTokens}
}

// Summarize keeps the most recent maxTokens tokens of prior and asks the
// model for a summary.
func (s *Summarizer) Summarize(ctx context.Context, prior string) (string, error) {
	prior = s.truncate(ctx, prior)

	summary, err := s.llm.Complete(ctx, summaryInstruction+"\n\n"+prior)
	if err != nil {
		return "", fmt.Errorf("summarize history: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		observability.LoggerFromContext(ctx).Warn("model returned a blank summary")
		return EmptySummaryNote, nil
	}
	return summary, nil
}

func (s *Summarizer) truncate(ctx context.Context, text string) string {
	if s.tokenizer == nil || s.maxTokens <= 0 {
		return text
	}
	tokens := s.tokenizer.Encode(text)
	if len(tokens) <= s.maxTokens {
		return text
	}
	observability.LoggerFromContext(ctx).Warn("prior history truncated before summary",
		"tokens", len(tokens),
		"max_tokens", s.maxTokens,
	)
	return s.tokenizer.Decode(tokens[len(tokens)-s.maxTokens:])
}

// FormatPriorInteraction renders one earlier interaction for the summarizer.
func FormatPriorInteraction(department string, conversation []domain.Turn) string {
	if department == "" {
		department = "Unassigned"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Department: %s\n", department)
	for _, t := range conversation {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text())
	}
	return b.String()
}
