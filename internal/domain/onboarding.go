package domain

// Department is a routing target whose Prompt steers the model's persona.
type Department struct {
	ID        DepartmentID
	Name      string
	Prompt    string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Client is a person being onboarded. Created the first time an interaction
// has gathered name, email and password.
type Client struct {
	ID            ClientID
	Name          string
	Email         string
	Password      string
	DepartmentIDs []DepartmentID
	CreatedAt     Timestamp
	UpdatedAt     Timestamp
}

// HasDepartment reports whether the client is already associated with id.
func (c *Client) HasDepartment(id DepartmentID) bool {
	for _, d := range c.DepartmentIDs {
		if d == id {
			return true
		}
	}
	return false
}

// Interaction is one onboarding conversation. ClientID is set at most once;
// DepartmentID may change on transfer.
type Interaction struct {
	ID           InteractionID
	ClientID     *ClientID
	DepartmentID *DepartmentID
	Title        string

	// SystemInstructions caches the summary of the client's earlier
	// interactions. Computed once, then reused for every turn.
	SystemInstructions string

	Conversation []Turn
	CreatedAt    Timestamp
	UpdatedAt    Timestamp
}

// Clone returns a deep copy of the interaction.
func (i *Interaction) Clone() *Interaction {
	if i == nil {
		return nil
	}
	out := *i
	if i.ClientID != nil {
		v := *i.ClientID
		out.ClientID = &v
	}
	if i.DepartmentID != nil {
		v := *i.DepartmentID
		out.DepartmentID = &v
	}
	out.Conversation = CloneTurns(i.Conversation)
	return &out
}

// Document is a file attached to an interaction.
type Document struct {
	ID            DocumentID
	InteractionID InteractionID
	FileName      string
	FileRef       string // blob location (path or URL)
	FileType      string
	CreatedAt     Timestamp
}
