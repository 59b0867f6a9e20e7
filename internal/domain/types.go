package domain

import "time"

type InteractionID int64
type ClientID int64
type DepartmentID int64
type DocumentID int64

// Role is the author of a conversation turn, using the model provider's vocabulary.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Valid reports whether r is one of the roles a stored conversation may contain.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

type Timestamp = time.Time
