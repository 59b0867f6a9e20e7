package domain_test

import (
	"errors"
	"testing"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

func TestConversationRoundTrip(t *testing.T) {
	turns := []domain.Turn{
		domain.NewTextTurn(domain.RoleUser, "Hello"),
		{Role: domain.RoleModel, Parts: []domain.Part{{Text: "Great to "}, {Text: "meet you."}}},
	}

	data, err := domain.MarshalConversation(turns)
	if err != nil {
		t.Fatalf("MarshalConversation failed: %v", err)
	}

	got, err := domain.UnmarshalConversation(data)
	if err != nil {
		t.Fatalf("UnmarshalConversation failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got))
	}
	if got[0].Role != domain.RoleUser || got[0].Text() != "Hello" {
		t.Fatalf("unexpected first turn: %+v", got[0])
	}
	if got[1].Role != domain.RoleModel || got[1].Text() != "Great to meet you." {
		t.Fatalf("unexpected second turn: %+v", got[1])
	}
}

func TestMarshalEmptyConversation(t *testing.T) {
	data, err := domain.MarshalConversation(nil)
	if err != nil {
		t.Fatalf("MarshalConversation failed: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}

	turns, err := domain.UnmarshalConversation(nil)
	if err != nil {
		t.Fatalf("UnmarshalConversation failed: %v", err)
	}
	if turns == nil || len(turns) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", turns)
	}
}

func TestUnmarshalConversationRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"unknown role":  `[{"role":"assistant","parts":[{"text":"hi"}]}]`,
		"unknown field": `[{"role":"user","parts":[{"text":"hi","inline_data":"x"}]}]`,
		"not an array":  `{"role":"user"}`,
		"parts string":  `[{"role":"user","parts":"hi"}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.UnmarshalConversation([]byte(raw))
			if !errors.Is(err, domain.ErrInvalidConversation) {
				t.Fatalf("expected ErrInvalidConversation, got %v", err)
			}
		})
	}
}

func TestInteractionCloneIsDeep(t *testing.T) {
	cid := domain.ClientID(7)
	orig := &domain.Interaction{
		ID:           1,
		ClientID:     &cid,
		Conversation: []domain.Turn{domain.NewTextTurn(domain.RoleUser, "a")},
	}

	cp := orig.Clone()
	*cp.ClientID = 9
	cp.Conversation[0].Parts[0].Text = "b"

	if *orig.ClientID != 7 {
		t.Fatalf("client id shared with clone")
	}
	if orig.Conversation[0].Text() != "a" {
		t.Fatalf("conversation shared with clone")
	}
}
