package llm_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/PabloGalante/intake-agent/internal/adapters/llm"
	"github.com/PabloGalante/intake-agent/internal/domain"
)

func TestMockCompleteStructuredExtractsIdentity(t *testing.T) {
	m := llm.NewMockLLM()

	schema := domain.Schema{Fields: []domain.SchemaField{
		{Name: "name"},
		{Name: "password"},
		{Name: "email"},
		{Name: "department", Enum: []string{"Corporate Law", "Intellectual Property", "Litigation"}},
	}}

	prompt := "Extract the fields.\n\nClient message:\nMy name is Ana Cruz, password hunter2, email ana@x.com, I need help with a trademark dispute"
	raw, err := m.CompleteStructured(context.Background(), prompt, schema)
	if err != nil {
		t.Fatalf("CompleteStructured failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("invalid JSON %s: %v", raw, err)
	}

	want := map[string]string{
		"name":       "Ana Cruz",
		"password":   "hunter2",
		"email":      "ana@x.com",
		"department": "Intellectual Property",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestMockCompleteStructuredOmitsUnknownFields(t *testing.T) {
	m := llm.NewMockLLM()

	schema := domain.Schema{Fields: []domain.SchemaField{{Name: "name"}, {Name: "email"}}}
	raw, err := m.CompleteStructured(context.Background(), "Client message:\nhello there", schema)
	if err != nil {
		t.Fatalf("CompleteStructured failed: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s", raw)
	}
}

func TestMockChatKeepsHistory(t *testing.T) {
	m := llm.NewMockLLM()
	ctx := context.Background()

	seed := []domain.Turn{
		domain.NewTextTurn(domain.RoleUser, "Hello"),
		domain.NewTextTurn(domain.RoleModel, "Hi, how can I help?"),
	}

	chat, err := m.OpenChat(ctx, seed, "be nice")
	if err != nil {
		t.Fatalf("OpenChat failed: %v", err)
	}
	reply, err := chat.Send(ctx, "I have a question")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply == "" {
		t.Fatalf("expected non-empty reply")
	}

	hist, err := chat.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hist) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(hist))
	}
	if hist[2].Role != domain.RoleUser || hist[2].Text() != "I have a question" {
		t.Fatalf("unexpected user turn: %+v", hist[2])
	}
	if hist[3].Role != domain.RoleModel || hist[3].Text() != reply {
		t.Fatalf("unexpected model turn: %+v", hist[3])
	}
}

func TestMockOpenChatRejectsBadRole(t *testing.T) {
	m := llm.NewMockLLM()
	_, err := m.OpenChat(context.Background(), []domain.Turn{{Role: "system"}}, "")
	if err == nil {
		t.Fatalf("expected error for invalid role")
	}
}
