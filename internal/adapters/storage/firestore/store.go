package firestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// Store implements every record store port on top of Firestore. Numeric ids
// come from counter documents so the HTTP contract keeps integer ids.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (INTAKE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

var (
	_ domain.DepartmentStore  = (*Store)(nil)
	_ domain.ClientStore      = (*Store)(nil)
	_ domain.InteractionStore = (*Store)(nil)
	_ domain.DocumentStore    = (*Store)(nil)
)

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) departmentsCol() *firestore.CollectionRef {
	return s.client.Collection("departments")
}

func (s *Store) clientsCol() *firestore.CollectionRef {
	return s.client.Collection("clients")
}

func (s *Store) interactionsCol() *firestore.CollectionRef {
	return s.client.Collection("interactions")
}

func (s *Store) interactionDoc(id domain.InteractionID) *firestore.DocumentRef {
	return s.interactionsCol().Doc(docID(int64(id)))
}

func (s *Store) documentsCol(id domain.InteractionID) *firestore.CollectionRef {
	return s.interactionDoc(id).Collection("documents")
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseDocID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("firestore: non-numeric document id %q", id)
	}
	return n, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// nextID increments counters/{kind} inside a transaction.
func (s *Store) nextID(ctx context.Context, kind string) (int64, error) {
	ref := s.client.Collection("counters").Doc(kind)

	var id int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var cur int64
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var c counterDoc
			if err := snap.DataTo(&c); err != nil {
				return err
			}
			cur = c.Value
		case isNotFound(err):
		default:
			return err
		}

		id = cur + 1
		return tx.Set(ref, counterDoc{Value: id})
	})
	if err != nil {
		return 0, fmt.Errorf("firestore nextID(%s): %w", kind, err)
	}
	return id, nil
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type counterDoc struct {
	Value int64 `firestore:"value"`
}

type departmentDoc struct {
	Name      string    `firestore:"name"`
	Prompt    string    `firestore:"prompt"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type clientDoc struct {
	Name          string    `firestore:"name"`
	Email         string    `firestore:"email"`
	EmailKey      string    `firestore:"email_key"`
	Password      string    `firestore:"password"`
	DepartmentIDs []int64   `firestore:"department_ids"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

type partDoc struct {
	Text string `firestore:"text"`
}

type turnDoc struct {
	Role  string    `firestore:"role"`
	Parts []partDoc `firestore:"parts"`
}

type interactionDoc struct {
	ClientID           *int64    `firestore:"client_id"`
	DepartmentID       *int64    `firestore:"department_id"`
	Title              string    `firestore:"title"`
	SystemInstructions string    `firestore:"system_instructions"`
	Conversation       []turnDoc `firestore:"conversation"`
	CreatedAt          time.Time `firestore:"created_at"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

type documentDoc struct {
	InteractionID int64     `firestore:"interaction_id"`
	FileName      string    `firestore:"file_name"`
	FileRef       string    `firestore:"file_ref"`
	FileType      string    `firestore:"file_type"`
	CreatedAt     time.Time `firestore:"created_at"`
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toDepartment(id string, doc departmentDoc) (*domain.Department, error) {
	n, err := parseDocID(id)
	if err != nil {
		return nil, err
	}
	return &domain.Department{
		ID:        domain.DepartmentID(n),
		Name:      doc.Name,
		Prompt:    doc.Prompt,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func toClient(id string, doc clientDoc) (*domain.Client, error) {
	n, err := parseDocID(id)
	if err != nil {
		return nil, err
	}
	depts := make([]domain.DepartmentID, 0, len(doc.DepartmentIDs))
	for _, d := range doc.DepartmentIDs {
		depts = append(depts, domain.DepartmentID(d))
	}
	return &domain.Client{
		ID:            domain.ClientID(n),
		Name:          doc.Name,
		Email:         doc.Email,
		Password:      doc.Password,
		DepartmentIDs: depts,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

func fromInteraction(i *domain.Interaction) interactionDoc {
	doc := interactionDoc{
		Title:              i.Title,
		SystemInstructions: i.SystemInstructions,
		Conversation:       make([]turnDoc, 0, len(i.Conversation)),
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
	if i.ClientID != nil {
		v := int64(*i.ClientID)
		doc.ClientID = &v
	}
	if i.DepartmentID != nil {
		v := int64(*i.DepartmentID)
		doc.DepartmentID = &v
	}
	for _, t := range i.Conversation {
		parts := make([]partDoc, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, partDoc{Text: p.Text})
		}
		doc.Conversation = append(doc.Conversation, turnDoc{Role: string(t.Role), Parts: parts})
	}
	return doc
}

func toInteraction(id string, doc interactionDoc) (*domain.Interaction, error) {
	n, err := parseDocID(id)
	if err != nil {
		return nil, err
	}

	out := &domain.Interaction{
		ID:                 domain.InteractionID(n),
		Title:              doc.Title,
		SystemInstructions: doc.SystemInstructions,
		Conversation:       make([]domain.Turn, 0, len(doc.Conversation)),
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
	if doc.ClientID != nil {
		v := domain.ClientID(*doc.ClientID)
		out.ClientID = &v
	}
	if doc.DepartmentID != nil {
		v := domain.DepartmentID(*doc.DepartmentID)
		out.DepartmentID = &v
	}
	for _, t := range doc.Conversation {
		parts := make([]domain.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, domain.Part{Text: p.Text})
		}
		out.Conversation = append(out.Conversation, domain.Turn{Role: domain.Role(t.Role), Parts: parts})
	}
	if err := domain.ValidateConversation(out.Conversation); err != nil {
		return nil, fmt.Errorf("interaction %d: %w", n, err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// DepartmentStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateDepartment(ctx context.Context, d *domain.Department) error {
	if _, err := s.GetDepartmentByName(ctx, d.Name); err == nil {
		return fmt.Errorf("department %q already exists", d.Name)
	}

	id, err := s.nextID(ctx, "departments")
	if err != nil {
		return err
	}

	now := s.now()
	doc := departmentDoc{Name: d.Name, Prompt: d.Prompt, CreatedAt: now, UpdatedAt: now}
	if _, err := s.departmentsCol().Doc(docID(id)).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateDepartment: %w", err)
	}

	d.ID = domain.DepartmentID(id)
	d.CreatedAt, d.UpdatedAt = now, now
	return nil
}

func (s *Store) GetDepartment(ctx context.Context, id domain.DepartmentID) (*domain.Department, error) {
	snap, err := s.departmentsCol().Doc(docID(int64(id))).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetDepartment: %w", err)
	}

	var doc departmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetDepartment decode: %w", err)
	}
	return toDepartment(snap.Ref.ID, doc)
}

func (s *Store) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	iter := s.departmentsCol().Where("name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("department %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("firestore GetDepartmentByName: %w", err)
	}

	var doc departmentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode departmentDoc: %w", err)
	}
	return toDepartment(snap.Ref.ID, doc)
}

func (s *Store) ListDepartments(ctx context.Context) ([]*domain.Department, error) {
	iter := s.departmentsCol().OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Department
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListDepartments: %w", err)
		}

		var doc departmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode departmentDoc: %w", err)
		}
		d, err := toDepartment(snap.Ref.ID, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ─────────────────────────────────────────
// ClientStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) error {
	id, err := s.nextID(ctx, "clients")
	if err != nil {
		return err
	}

	now := s.now()
	key := emailKey(c.Email)
	ref := s.clientsCol().Doc(docID(id))

	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(s.clientsCol().Where("email_key", "==", key).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("client with email %q: %w", c.Email, domain.ErrAlreadyExists)
		}

		depts := make([]int64, 0, len(c.DepartmentIDs))
		for _, d := range c.DepartmentIDs {
			depts = append(depts, int64(d))
		}
		return tx.Create(ref, clientDoc{
			Name:          c.Name,
			Email:         c.Email,
			EmailKey:      key,
			Password:      c.Password,
			DepartmentIDs: depts,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	})
	if err != nil {
		return fmt.Errorf("firestore CreateClient: %w", err)
	}

	c.ID = domain.ClientID(id)
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (s *Store) GetClient(ctx context.Context, id domain.ClientID) (*domain.Client, error) {
	snap, err := s.clientsCol().Doc(docID(int64(id))).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetClient: %w", err)
	}

	var doc clientDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetClient decode: %w", err)
	}
	return toClient(snap.Ref.ID, doc)
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	iter := s.clientsCol().Where("email_key", "==", emailKey(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("client %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("firestore GetClientByEmail: %w", err)
	}

	var doc clientDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode clientDoc: %w", err)
	}
	return toClient(snap.Ref.ID, doc)
}

func (s *Store) AddClientDepartment(ctx context.Context, id domain.ClientID, dept domain.DepartmentID) error {
	_, err := s.clientsCol().Doc(docID(int64(id))).Update(ctx, []firestore.Update{
		{Path: "department_ids", Value: firestore.ArrayUnion(int64(dept))},
		{Path: "updated_at", Value: s.now()},
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("firestore AddClientDepartment: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// InteractionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateInteraction(ctx context.Context, i *domain.Interaction) error {
	id, err := s.nextID(ctx, "interactions")
	if err != nil {
		return err
	}

	i.ID = domain.InteractionID(id)
	if i.Conversation == nil {
		i.Conversation = []domain.Turn{}
	}

	if _, err := s.interactionDoc(i.ID).Create(ctx, fromInteraction(i)); err != nil {
		return fmt.Errorf("firestore CreateInteraction: %w", err)
	}
	return nil
}

func (s *Store) GetInteraction(ctx context.Context, id domain.InteractionID) (*domain.Interaction, error) {
	snap, err := s.interactionDoc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("interaction %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetInteraction: %w", err)
	}

	var doc interactionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetInteraction decode: %w", err)
	}
	return toInteraction(snap.Ref.ID, doc)
}

func (s *Store) UpdateInteraction(ctx context.Context, i *domain.Interaction) error {
	if err := domain.ValidateConversation(i.Conversation); err != nil {
		return err
	}

	// Set without merge: the conversation is always rewritten in full.
	ref := s.interactionDoc(i.ID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, fromInteraction(i))
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("interaction %d: %w", i.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("firestore UpdateInteraction: %w", err)
	}
	return nil
}

func (s *Store) ListInteractionsByClient(ctx context.Context, id domain.ClientID) ([]*domain.Interaction, error) {
	q := s.interactionsCol().Where("client_id", "==", int64(id)).OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Interaction
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListInteractionsByClient: %w", err)
		}

		var doc interactionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode interactionDoc: %w", err)
		}
		i, err := toInteraction(snap.Ref.ID, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// ─────────────────────────────────────────
// DocumentStore implementation
// ─────────────────────────────────────────

func (s *Store) AddDocument(ctx context.Context, d *domain.Document) error {
	id, err := s.nextID(ctx, "documents")
	if err != nil {
		return err
	}

	doc := documentDoc{
		InteractionID: int64(d.InteractionID),
		FileName:      d.FileName,
		FileRef:       d.FileRef,
		FileType:      d.FileType,
		CreatedAt:     d.CreatedAt,
	}
	if _, err := s.documentsCol(d.InteractionID).Doc(docID(id)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AddDocument: %w", err)
	}

	d.ID = domain.DocumentID(id)
	return nil
}

func (s *Store) ListDocumentsByInteraction(ctx context.Context, id domain.InteractionID) ([]*domain.Document, error) {
	iter := s.documentsCol(id).OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Document
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListDocumentsByInteraction: %w", err)
		}

		var doc documentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode documentDoc: %w", err)
		}
		n, err := parseDocID(snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.Document{
			ID:            domain.DocumentID(n),
			InteractionID: domain.InteractionID(doc.InteractionID),
			FileName:      doc.FileName,
			FileRef:       doc.FileRef,
			FileType:      doc.FileType,
			CreatedAt:     doc.CreatedAt,
		})
	}
	return out, nil
}
