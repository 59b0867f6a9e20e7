package agentflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// ExtractedInfo holds what the model could read from one client message.
// Empty fields were not found.
type ExtractedInfo struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// HasCredentials reports whether name, email and password are all present.
func (e ExtractedInfo) HasCredentials() bool {
	return e.Name != "" && e.Email != "" && e.Password != ""
}

// Extractor pulls the client's identity and a department candidate out of
// free text with one structured completion.
type Extractor struct {
	llm domain.LLMClient
}

func NewExtractor(llm domain.LLMClient) *Extractor {
	return &Extractor{llm: llm}
}

func extractionSchema(departments []string) domain.Schema {
	return domain.Schema{Fields: []domain.SchemaField{
		{
			Name:        "name",
			Description: "The client's full name, only if they state it in this message. Leave empty otherwise.",
		},
		{
			Name:        "password",
			Description: "The password the client gives in this message, copied exactly. Leave empty otherwise.",
		},
		{
			Name:        "email",
			Description: "The client's email address as written in this message. Leave empty otherwise.",
		},
		{
			Name: "department",
			Description: "The legal department the client needs, only if the current message clearly asks for it " +
				"or clearly describes a matter it handles. Ignore earlier turns. Leave empty when unsure.",
			Enum: departments,
		},
	}}
}

// Extract runs the extraction call. A response that is not a JSON object of
// string fields yields ErrSchemaViolation.
func (e *Extractor) Extract(ctx context.Context, text string, departments []string) (ExtractedInfo, error) {
	prompt := fmt.Sprintf(
		"You extract onboarding details for a law firm. Read the client message below and fill only the fields "+
			"it states explicitly. Never guess.\nAvailable departments: %s.\n\n%s\n%s",
		strings.Join(departments, ", "), messageMarker, text,
	)

	raw, err := e.llm.CompleteStructured(ctx, prompt, extractionSchema(departments))
	if err != nil {
		return ExtractedInfo{}, fmt.Errorf("extract client info: %w", err)
	}

	var info ExtractedInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ExtractedInfo{}, fmt.Errorf("extract client info: %w: %v", domain.ErrSchemaViolation, err)
	}
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Password = strings.TrimSpace(info.Password)
	info.Department = strings.TrimSpace(info.Department)
	return info, nil
}
