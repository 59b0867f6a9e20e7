package agentflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PabloGalante/intake-agent/internal/adapters/llm"
	"github.com/PabloGalante/intake-agent/internal/app/agentflow"
	"github.com/PabloGalante/intake-agent/internal/domain"
)

var departments = []string{"Family Law", "Intellectual Property", "Real Estate"}

// stubLLM returns canned answers and remembers the prompts it saw.
type stubLLM struct {
	structured string
	completion string
	err        error
	prompts    []string
	schemas    []domain.Schema
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.completion, s.err
}

func (s *stubLLM) CompleteStructured(ctx context.Context, prompt string, schema domain.Schema) ([]byte, error) {
	s.prompts = append(s.prompts, prompt)
	s.schemas = append(s.schemas, schema)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.structured), nil
}

func (s *stubLLM) OpenChat(ctx context.Context, history []domain.Turn, systemInstruction string) (domain.ChatSession, error) {
	return nil, errors.New("not used")
}

func TestExtractor_FullCredentials(t *testing.T) {
	ex := agentflow.NewExtractor(llm.NewMockLLM())

	info, err := ex.Extract(context.Background(),
		"Hi, my name is Ana Cruz, email ana@x.com, password hunter2. I need help with a trademark.",
		departments)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if info.Name != "Ana Cruz" || info.Email != "ana@x.com" || info.Password != "hunter2" {
		t.Fatalf("unexpected credentials: %+v", info)
	}
	if info.Department != "Intellectual Property" {
		t.Fatalf("expected Intellectual Property, got %q", info.Department)
	}
	if !info.HasCredentials() {
		t.Fatalf("expected HasCredentials")
	}
}

func TestExtractor_MissingFieldsAreEmpty(t *testing.T) {
	stub := &stubLLM{structured: `{"name":"Ana Cruz","email":null}`}
	ex := agentflow.NewExtractor(stub)

	info, err := ex.Extract(context.Background(), "I'm Ana Cruz", departments)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if info.Name != "Ana Cruz" || info.Email != "" || info.Password != "" || info.Department != "" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.HasCredentials() {
		t.Fatalf("expected missing credentials")
	}

	if len(stub.schemas) != 1 || len(stub.schemas[0].Fields) != 4 {
		t.Fatalf("expected one call with a four-field schema, got %+v", stub.schemas)
	}
	dept := stub.schemas[0].Fields[3]
	if dept.Name != "department" || len(dept.Enum) != len(departments) {
		t.Fatalf("department field not constrained: %+v", dept)
	}
	if !strings.HasSuffix(stub.prompts[0], "I'm Ana Cruz") {
		t.Fatalf("prompt should end with the client text, got %q", stub.prompts[0])
	}
}

func TestExtractor_MalformedJSON(t *testing.T) {
	ex := agentflow.NewExtractor(&stubLLM{structured: `not json`})

	_, err := ex.Extract(context.Background(), "hello", departments)
	if !errors.Is(err, domain.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestExtractor_GatewayError(t *testing.T) {
	ex := agentflow.NewExtractor(&stubLLM{err: domain.ErrGatewayUnavailable})

	_, err := ex.Extract(context.Background(), "hello", departments)
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name        string
		structured  string
		wantName    string
		wantChanged bool
		wantErr     error
	}{
		{name: "transfer", structured: `{"department":"Real Estate"}`, wantName: "Real Estate", wantChanged: true},
		{name: "same department", structured: `{"department":"Family Law"}`, wantName: "Family Law"},
		{name: "null", structured: `{"department":null}`},
		{name: "absent", structured: `{}`},
		{name: "malformed", structured: `[1,2]`, wantErr: domain.ErrSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := agentflow.NewRouter(&stubLLM{structured: tt.structured})

			got, changed, err := r.Route(context.Background(), "text", "Family Law", departments)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Route: %v", err)
			}
			if got != tt.wantName || changed != tt.wantChanged {
				t.Fatalf("got (%q, %v), want (%q, %v)", got, changed, tt.wantName, tt.wantChanged)
			}
		})
	}
}

func TestRouter_MockKeywords(t *testing.T) {
	r := agentflow.NewRouter(llm.NewMockLLM())

	got, changed, err := r.Route(context.Background(),
		"Actually my landlord is evicting me, I need help with my lease.", "Family Law", departments)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if !changed || got != "Real Estate" {
		t.Fatalf("expected transfer to Real Estate, got (%q, %v)", got, changed)
	}
}

// wordTokenizer treats each space-separated word as a token.
type wordTokenizer struct{}

func (wordTokenizer) Encode(text string) []int {
	words := strings.Fields(text)
	out := make([]int, len(words))
	for i := range words {
		out[i] = i
	}
	return out
}

func (wordTokenizer) Decode(tokens []int) string { return "" }

type recordingTokenizer struct {
	words []string
}

func (r *recordingTokenizer) Encode(text string) []int {
	r.words = strings.Fields(text)
	out := make([]int, len(r.words))
	for i := range out {
		out[i] = i
	}
	return out
}

func (r *recordingTokenizer) Decode(tokens []int) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, r.words[t])
	}
	return strings.Join(parts, " ")
}

func TestSummarizer_TruncatesToMostRecentTokens(t *testing.T) {
	stub := &stubLLM{completion: "  a summary  "}
	s := agentflow.NewSummarizer(stub, &recordingTokenizer{}, 3)

	got, err := s.Summarize(context.Background(), "one two three four five")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "a summary" {
		t.Fatalf("unexpected summary %q", got)
	}
	if len(stub.prompts) != 1 {
		t.Fatalf("expected one call, got %d", len(stub.prompts))
	}
	if !strings.HasSuffix(stub.prompts[0], "\n\nthree four five") {
		t.Fatalf("expected the last three words, got %q", stub.prompts[0])
	}
	if strings.Contains(stub.prompts[0], "two") {
		t.Fatalf("older tokens should be cut: %q", stub.prompts[0])
	}
}

func TestSummarizer_ShortInputUntouched(t *testing.T) {
	stub := &stubLLM{completion: "ok"}
	s := agentflow.NewSummarizer(stub, wordTokenizer{}, 10)

	if _, err := s.Summarize(context.Background(), "one two"); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.HasSuffix(stub.prompts[0], "\n\none two") {
		t.Fatalf("input should be sent whole, got %q", stub.prompts[0])
	}
}

func TestSummarizer_GatewayError(t *testing.T) {
	s := agentflow.NewSummarizer(&stubLLM{err: domain.ErrGatewayUnavailable}, nil, 0)

	if _, err := s.Summarize(context.Background(), "x"); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestSummarizer_BlankSummaryFallsBackToNote(t *testing.T) {
	s := agentflow.NewSummarizer(&stubLLM{completion: "  \n"}, nil, 0)

	got, err := s.Summarize(context.Background(), "Department: Family Law\nuser: hello\n")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != agentflow.EmptySummaryNote {
		t.Fatalf("expected fallback note, got %q", got)
	}
}

func TestFormatPriorInteraction(t *testing.T) {
	got := agentflow.FormatPriorInteraction("", []domain.Turn{
		domain.NewTextTurn(domain.RoleUser, "hello"),
		domain.NewTextTurn(domain.RoleModel, "hi"),
	})
	want := "Department: Unassigned\nuser: hello\nmodel: hi\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
