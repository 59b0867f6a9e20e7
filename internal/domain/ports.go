package domain

import "context"

// SchemaField is one optional string property of a structured completion.
type SchemaField struct {
	Name        string
	Description string
	Enum        []string // allowed values, empty means free text
}

// Schema describes a flat JSON object of optional string fields.
type Schema struct {
	Fields []SchemaField
}

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	// Complete is a stateless single-shot completion.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteStructured returns the raw JSON object produced under schema.
	CompleteStructured(ctx context.Context, prompt string, schema Schema) ([]byte, error)

	// OpenChat starts a multi-turn session seeded with history. An empty
	// systemInstruction is omitted.
	OpenChat(ctx context.Context, history []Turn, systemInstruction string) (ChatSession, error)
}

// ChatSession is a stateful conversation with the model.
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
	// History returns the seed history plus every exchanged turn.
	History() ([]Turn, error)
}

// DepartmentStore defines department persistence.
type DepartmentStore interface {
	GetDepartment(ctx context.Context, id DepartmentID) (*Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
	// CreateDepartment fails if a department with the same name exists.
	CreateDepartment(ctx context.Context, d *Department) error
}

// ClientStore defines client persistence.
type ClientStore interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id ClientID) (*Client, error)
	GetClientByEmail(ctx context.Context, email string) (*Client, error)
	AddClientDepartment(ctx context.Context, id ClientID, dept DepartmentID) error
}

// InteractionStore defines interaction persistence. UpdateInteraction
// rewrites the whole record, conversation included.
type InteractionStore interface {
	CreateInteraction(ctx context.Context, i *Interaction) error
	GetInteraction(ctx context.Context, id InteractionID) (*Interaction, error)
	UpdateInteraction(ctx context.Context, i *Interaction) error
	ListInteractionsByClient(ctx context.Context, id ClientID) ([]*Interaction, error)
}

// DocumentStore defines document persistence.
type DocumentStore interface {
	AddDocument(ctx context.Context, d *Document) error
	ListDocumentsByInteraction(ctx context.Context, id InteractionID) ([]*Document, error)
}

// TurnLocker serializes turns that target the same interaction.
type TurnLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
