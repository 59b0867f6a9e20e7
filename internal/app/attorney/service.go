package attorney

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PabloGalante/intake-agent/internal/app/departments"
	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

const attorneyInstructions = `
You are an assistant for the attorneys of a law firm.
Answer the attorney's message concisely and precisely, pointing out any facts that are missing for the matter.
The firm's departments are: %s.
`

// Service answers attorney-facing messages. Nothing is persisted.
type Service struct {
	llm         domain.LLMClient
	departments domain.DepartmentStore
}

func NewService(llm domain.LLMClient, departmentStore domain.DepartmentStore) *Service {
	return &Service{llm: llm, departments: departmentStore}
}

// Respond sends message to the model framed by the attorney instructions.
func (s *Service) Respond(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", domain.ErrEmptyMessage
	}

	log := observability.LoggerFromContext(ctx)

	names, err := departments.Names(ctx, s.departments)
	if err != nil {
		log.Error("failed to list departments", "error", err)
		return "", err
	}

	prompt := strings.TrimSpace(fmt.Sprintf(attorneyInstructions, strings.Join(names, ", "))) +
		"\n\nAttorney message:\n" + message

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		log.Error("attorney completion failed", "error", err)
		if errors.Is(err, domain.ErrGatewayUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("attorney response: %w", err)
	}
	log.Info("attorney message answered")
	return reply, nil
}
