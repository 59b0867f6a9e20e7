package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalConversation encodes turns in the persisted form
// [{"role": "user"|"model", "parts": [{"text": "..."}]}].
func MarshalConversation(turns []Turn) ([]byte, error) {
	if err := ValidateConversation(turns); err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []Turn{}
	}
	return json.Marshal(turns)
}

// UnmarshalConversation decodes the persisted form. Unknown fields and roles
// are rejected instead of being dropped.
func UnmarshalConversation(data []byte) ([]Turn, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Turn{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var turns []Turn
	if err := dec.Decode(&turns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConversation, err)
	}
	if err := ValidateConversation(turns); err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns, nil
}

// ValidateConversation checks every turn has a known role.
func ValidateConversation(turns []Turn) error {
	for i, t := range turns {
		if !t.Role.Valid() {
			return fmt.Errorf("%w: turn %d has role %q", ErrInvalidConversation, i, t.Role)
		}
	}
	return nil
}
