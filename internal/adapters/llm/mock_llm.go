package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// MockLLM is an offline, deterministic LLMClient for local mode. Structured
// completions use simple pattern matching on the client message.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

var _ domain.LLMClient = (*MockLLM)(nil)

// Prompts built by agentflow put the raw client text after this marker.
const mockMessageMarker = "Client message:"

var (
	mockNameRe     = regexp.MustCompile(`(?i:my name is|i am|i'm|name:)\s+([\p{Lu}][\p{L}'-]*(?:\s+[\p{Lu}][\p{L}'-]*)*)`)
	mockEmailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	mockPasswordRe = regexp.MustCompile(`(?i:password)(?:\s+is|:)?\s+([^\s,;]+)`)
)

var mockDepartmentKeywords = map[string][]string{
	"Intellectual Property":        {"trademark", "patent", "copyright", "trade secret"},
	"Family Law":                   {"divorce", "custody", "child support", "adoption"},
	"Real Estate":                  {"lease", "landlord", "tenant", "property", "zoning"},
	"Employment Law":               {"fired", "employer", "wage", "harassment", "wrongful termination"},
	"Tax Law":                      {"tax", "irs"},
	"Bankruptcy & Restructuring":   {"bankrupt", "creditor", "insolvency"},
	"Litigation":                   {"lawsuit", "sue", "sued"},
	"Corporate Law":                {"merger", "acquisition", "incorporate", "shareholder"},
	"Data Privacy & Cybersecurity": {"data breach", "gdpr", "privacy"},
	"Construction Law":             {"contractor", "construction"},
	"Insurance Law":                {"insurance", "insurer"},
}

func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	text := []rune(strings.TrimSpace(prompt))
	if len(text) > 200 {
		text = text[len(text)-200:]
	}
	return fmt.Sprintf("Summary of the conversation so far: %s", string(text)), nil
}

func (m *MockLLM) CompleteStructured(ctx context.Context, prompt string, schema domain.Schema) ([]byte, error) {
	msg := prompt
	if i := strings.LastIndex(prompt, mockMessageMarker); i >= 0 {
		msg = prompt[i+len(mockMessageMarker):]
	}

	out := make(map[string]string)
	for _, f := range schema.Fields {
		var v string
		switch {
		case len(f.Enum) > 0:
			v = matchEnum(msg, f.Enum)
		case f.Name == "name":
			v = firstGroup(mockNameRe, msg)
		case f.Name == "email":
			v = mockEmailRe.FindString(msg)
		case f.Name == "password":
			v = strings.TrimRight(firstGroup(mockPasswordRe, msg), ".!")
		}
		if v != "" {
			out[f.Name] = v
		}
	}
	return json.Marshal(out)
}

func (m *MockLLM) OpenChat(ctx context.Context, history []domain.Turn, systemInstruction string) (domain.ChatSession, error) {
	if err := domain.ValidateConversation(history); err != nil {
		return nil, err
	}
	return &mockChat{history: domain.CloneTurns(history), system: systemInstruction}, nil
}

type mockChat struct {
	history []domain.Turn
	system  string
}

func (c *mockChat) Send(ctx context.Context, message string) (string, error) {
	reply := fmt.Sprintf("Thank you. I have noted: %q. Could you tell me a little more about your situation?", message)
	c.history = append(c.history,
		domain.NewTextTurn(domain.RoleUser, message),
		domain.NewTextTurn(domain.RoleModel, reply),
	)
	return reply, nil
}

func (c *mockChat) History() ([]domain.Turn, error) {
	return domain.CloneTurns(c.history), nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// matchEnum returns the allowed value named in msg, directly or through a keyword.
func matchEnum(msg string, allowed []string) string {
	lower := strings.ToLower(msg)
	for _, name := range allowed {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	for _, name := range allowed {
		for _, kw := range mockDepartmentKeywords[name] {
			if strings.Contains(lower, kw) {
				return name
			}
		}
	}
	return ""
}
