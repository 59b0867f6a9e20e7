package llm

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// toContents converts stored turns into genai history.
func toContents(turns []domain.Turn) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(turns))
	for i, t := range turns {
		if !t.Role.Valid() {
			return nil, fmt.Errorf("%w: turn %d has role %q", domain.ErrInvalidConversation, i, t.Role)
		}
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		out = append(out, &genai.Content{Role: string(t.Role), Parts: parts})
	}
	return out, nil
}

// fromContents converts genai history into turns. Only text parts survive;
// inline data, files, function calls and thoughts are dropped. A nil content
// or an unexpected role is an error.
func fromContents(contents []*genai.Content) ([]domain.Turn, error) {
	out := make([]domain.Turn, 0, len(contents))
	for i, c := range contents {
		if c == nil {
			return nil, fmt.Errorf("%w: content %d is nil", domain.ErrInvalidConversation, i)
		}
		role := domain.Role(c.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: content %d has role %q", domain.ErrInvalidConversation, i, c.Role)
		}

		parts := make([]domain.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			if p == nil || p.Thought || p.Text == "" {
				continue
			}
			parts = append(parts, domain.Part{Text: p.Text})
		}
		out = append(out, domain.Turn{Role: role, Parts: parts})
	}
	return out, nil
}
