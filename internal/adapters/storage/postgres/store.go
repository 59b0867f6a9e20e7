package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements the record store ports on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var (
	_ domain.DepartmentStore  = (*Store)(nil)
	_ domain.ClientStore      = (*Store)(nil)
	_ domain.InteractionStore = (*Store)(nil)
	_ domain.DocumentStore    = (*Store)(nil)
)

// EnsureSchema creates the tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ─────────────────────────────────────────
// DepartmentStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateDepartment(ctx context.Context, d *domain.Department) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO departments (name, prompt) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, d.Name, d.Prompt).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("department %q already exists", d.Name)
	}
	if err != nil {
		return fmt.Errorf("postgres CreateDepartment: %w", err)
	}
	return nil
}

const departmentColumns = `id, name, prompt, created_at, updated_at`

func scanDepartment(row pgx.Row) (*domain.Department, error) {
	var d domain.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Prompt, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) GetDepartment(ctx context.Context, id domain.DepartmentID) (*domain.Department, error) {
	d, err := scanDepartment(s.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres GetDepartment: %w", err)
	}
	return d, nil
}

func (s *Store) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	d, err := scanDepartment(s.pool.QueryRow(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("department %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres GetDepartmentByName: %w", err)
	}
	return d, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]*domain.Department, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("postgres ListDepartments: %w", err)
	}
	defer rows.Close()

	var out []*domain.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres ListDepartments scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres ListDepartments: %w", err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// ClientStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateClient(ctx context.Context, c *domain.Client) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO clients (name, email, password) VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, c.Name, c.Email, c.Password).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return err
		}
		for _, d := range c.DepartmentIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO client_departments (client_id, department_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, c.ID, d); err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("client with email %q: %w", c.Email, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("postgres CreateClient: %w", err)
	}
	return nil
}

const clientSelect = `
	SELECT c.id, c.name, c.email, c.password, c.created_at, c.updated_at,
	       COALESCE(array_agg(cd.department_id ORDER BY cd.department_id)
	                FILTER (WHERE cd.department_id IS NOT NULL), '{}')
	FROM clients c
	LEFT JOIN client_departments cd ON cd.client_id = c.id
`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c     domain.Client
		depts []int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Password, &c.CreatedAt, &c.UpdatedAt, &depts); err != nil {
		return nil, err
	}
	c.DepartmentIDs = make([]domain.DepartmentID, 0, len(depts))
	for _, d := range depts {
		c.DepartmentIDs = append(c.DepartmentIDs, domain.DepartmentID(d))
	}
	return &c, nil
}

func (s *Store) GetClient(ctx context.Context, id domain.ClientID) (*domain.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, clientSelect+` WHERE c.id = $1 GROUP BY c.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres GetClient: %w", err)
	}
	return c, nil
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx,
		clientSelect+` WHERE lower(c.email) = lower(trim($1)) GROUP BY c.id`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres GetClientByEmail: %w", err)
	}
	return c, nil
}

func (s *Store) AddClientDepartment(ctx context.Context, id domain.ClientID, dept domain.DepartmentID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO client_departments (client_id, department_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, id, dept)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("postgres AddClientDepartment: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// InteractionStore implementation
// ─────────────────────────────────────────

const interactionColumns = `id, client_id, department_id, title, system_instructions, conversation, created_at, updated_at`

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
	var (
		i            domain.Interaction
		clientID     *int64
		departmentID *int64
		conversation []byte
	)
	if err := row.Scan(&i.ID, &clientID, &departmentID, &i.Title, &i.SystemInstructions,
		&conversation, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	if clientID != nil {
		v := domain.ClientID(*clientID)
		i.ClientID = &v
	}
	if departmentID != nil {
		v := domain.DepartmentID(*departmentID)
		i.DepartmentID = &v
	}

	turns, err := domain.UnmarshalConversation(conversation)
	if err != nil {
		return nil, fmt.Errorf("interaction %d: %w", i.ID, err)
	}
	i.Conversation = turns
	return &i, nil
}

func nullableIDs(i *domain.Interaction) (clientID, departmentID *int64) {
	if i.ClientID != nil {
		v := int64(*i.ClientID)
		clientID = &v
	}
	if i.DepartmentID != nil {
		v := int64(*i.DepartmentID)
		departmentID = &v
	}
	return clientID, departmentID
}

func (s *Store) CreateInteraction(ctx context.Context, i *domain.Interaction) error {
	conversation, err := domain.MarshalConversation(i.Conversation)
	if err != nil {
		return err
	}
	clientID, departmentID := nullableIDs(i)

	err = s.pool.QueryRow(ctx, `
		INSERT INTO interactions (client_id, department_id, title, system_instructions, conversation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
		RETURNING id
	`, clientID, departmentID, i.Title, i.SystemInstructions, conversation, i.CreatedAt, i.UpdatedAt).Scan(&i.ID)
	if err != nil {
		return fmt.Errorf("postgres CreateInteraction: %w", err)
	}
	if i.Conversation == nil {
		i.Conversation = []domain.Turn{}
	}
	return nil
}

func (s *Store) GetInteraction(ctx context.Context, id domain.InteractionID) (*domain.Interaction, error) {
	i, err := scanInteraction(s.pool.QueryRow(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("interaction %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres GetInteraction: %w", err)
	}
	return i, nil
}

func (s *Store) UpdateInteraction(ctx context.Context, i *domain.Interaction) error {
	conversation, err := domain.MarshalConversation(i.Conversation)
	if err != nil {
		return err
	}
	clientID, departmentID := nullableIDs(i)

	ct, err := s.pool.Exec(ctx, `
		UPDATE interactions
		SET client_id = $2, department_id = $3, title = $4, system_instructions = $5,
		    conversation = $6::jsonb, updated_at = $7
		WHERE id = $1
	`, i.ID, clientID, departmentID, i.Title, i.SystemInstructions, conversation, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres UpdateInteraction: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("interaction %d: %w", i.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ListInteractionsByClient(ctx context.Context, id domain.ClientID) ([]*domain.Interaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE client_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres ListInteractionsByClient: %w", err)
	}
	defer rows.Close()

	var out []*domain.Interaction
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres ListInteractionsByClient scan: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres ListInteractionsByClient: %w", err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// DocumentStore implementation
// ─────────────────────────────────────────

func (s *Store) AddDocument(ctx context.Context, d *domain.Document) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO documents (interaction_id, file_name, file_ref, file_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, d.InteractionID, d.FileName, d.FileRef, d.FileType, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("postgres AddDocument: %w", err)
	}
	return nil
}

func (s *Store) ListDocumentsByInteraction(ctx context.Context, id domain.InteractionID) ([]*domain.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, interaction_id, file_name, file_ref, file_type, created_at
		FROM documents
		WHERE interaction_id = $1
		ORDER BY created_at DESC, id DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres ListDocumentsByInteraction: %w", err)
	}
	defer rows.Close()

	var out []*domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.InteractionID, &d.FileName, &d.FileRef, &d.FileType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres ListDocumentsByInteraction scan: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres ListDocumentsByInteraction: %w", err)
	}
	return out, nil
}
