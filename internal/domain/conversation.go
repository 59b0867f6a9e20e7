package domain

import "strings"

// Part is a single text fragment of a turn.
type Part struct {
	Text string `json:"text"`
}

// Turn is one message in an interaction's conversation (user or model).
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTextTurn builds a single-part turn.
func NewTextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// Text joins every part of the turn.
func (t Turn) Text() string {
	var b strings.Builder
	for _, p := range t.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// CloneTurns returns a deep copy so stores never share slices with callers.
func CloneTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	for i, t := range turns {
		parts := make([]Part, len(t.Parts))
		copy(parts, t.Parts)
		out[i] = Turn{Role: t.Role, Parts: parts}
	}
	return out
}
