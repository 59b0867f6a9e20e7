package intake

import "crypto/subtle"

// Credential stores and checks client passwords.
type Credential interface {
	// Seal turns a supplied password into its stored form.
	Seal(password string) (string, error)
	// Verify reports whether supplied matches the stored form.
	Verify(stored, supplied string) bool
}

// PlaintextCredential keeps passwords as given and compares them in constant time.
type PlaintextCredential struct{}

func (PlaintextCredential) Seal(password string) (string, error) {
	return password, nil
}

func (PlaintextCredential) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
