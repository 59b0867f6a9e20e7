package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloGalante/intake-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/intake-agent/internal/domain"
)

func TestInteractionStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInteractionStore()

	in := &domain.Interaction{}
	if err := store.CreateInteraction(ctx, in); err != nil {
		t.Fatalf("CreateInteraction failed: %v", err)
	}
	if in.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	// Mutating the caller's copy must not leak into the store.
	in.Conversation = append(in.Conversation, domain.NewTextTurn(domain.RoleUser, "hi"))

	got, err := store.GetInteraction(ctx, in.ID)
	if err != nil {
		t.Fatalf("GetInteraction failed: %v", err)
	}
	if len(got.Conversation) != 0 {
		t.Fatalf("expected empty stored conversation, got %d turns", len(got.Conversation))
	}

	if err := store.UpdateInteraction(ctx, in); err != nil {
		t.Fatalf("UpdateInteraction failed: %v", err)
	}
	got, _ = store.GetInteraction(ctx, in.ID)
	if len(got.Conversation) != 1 {
		t.Fatalf("expected 1 turn after update, got %d", len(got.Conversation))
	}
}

func TestInteractionStoreNotFound(t *testing.T) {
	store := memory.NewInteractionStore()
	_, err := store.GetInteraction(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	err = store.UpdateInteraction(context.Background(), &domain.Interaction{ID: 42})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestListInteractionsByClient(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInteractionStore()

	a, b := domain.ClientID(1), domain.ClientID(2)
	for _, cid := range []*domain.ClientID{&a, &b, &a, nil} {
		if err := store.CreateInteraction(ctx, &domain.Interaction{ClientID: cid}); err != nil {
			t.Fatalf("CreateInteraction failed: %v", err)
		}
	}

	got, err := store.ListInteractionsByClient(ctx, a)
	if err != nil {
		t.Fatalf("ListInteractionsByClient failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected interactions: %+v", got)
	}
}

func TestClientStoreEmailLookup(t *testing.T) {
	ctx := context.Background()
	store := memory.NewClientStore()

	c := &domain.Client{Name: "Ana Cruz", Email: "Ana@X.com", Password: "hunter2"}
	if err := store.CreateClient(ctx, c); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	got, err := store.GetClientByEmail(ctx, "ana@x.com")
	if err != nil {
		t.Fatalf("GetClientByEmail failed: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("expected client %d, got %d", c.ID, got.ID)
	}

	if err := store.CreateClient(ctx, &domain.Client{Email: "ana@x.com"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate email, got %v", err)
	}

	if err := store.AddClientDepartment(ctx, c.ID, 3); err != nil {
		t.Fatalf("AddClientDepartment failed: %v", err)
	}
	if err := store.AddClientDepartment(ctx, c.ID, 3); err != nil {
		t.Fatalf("AddClientDepartment failed: %v", err)
	}
	got, _ = store.GetClient(ctx, c.ID)
	if len(got.DepartmentIDs) != 1 {
		t.Fatalf("expected one department, got %v", got.DepartmentIDs)
	}
}

func TestDepartmentStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDepartmentStore()

	for _, name := range []string{"Tax Law", "Corporate Law"} {
		if err := store.CreateDepartment(ctx, &domain.Department{Name: name, Prompt: name + " prompt"}); err != nil {
			t.Fatalf("CreateDepartment failed: %v", err)
		}
	}
	if err := store.CreateDepartment(ctx, &domain.Department{Name: "Tax Law"}); err == nil {
		t.Fatalf("expected duplicate name to fail")
	}

	list, _ := store.ListDepartments(ctx)
	if len(list) != 2 || list[0].Name != "Corporate Law" {
		t.Fatalf("expected departments sorted by name, got %+v", list)
	}

	d, err := store.GetDepartmentByName(ctx, "Tax Law")
	if err != nil || d.Prompt != "Tax Law prompt" {
		t.Fatalf("unexpected lookup: %+v %v", d, err)
	}
	if _, err := store.GetDepartmentByName(ctx, "tax law"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected exact name match, got %v", err)
	}
}

func TestDocumentStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()

	for _, name := range []string{"a.pdf", "b.pdf"} {
		if err := store.AddDocument(ctx, &domain.Document{InteractionID: 1, FileName: name}); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}
	docs, _ := store.ListDocumentsByInteraction(ctx, 1)
	if len(docs) != 2 || docs[0].FileName != "b.pdf" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
}
