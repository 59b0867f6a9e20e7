package intake

import (
	"fmt"
	"strings"
)

// Replies returned without calling the chat model.
const (
	MissingCredentialsMessage = "Welcome to the firm's onboarding assistant. Before we begin, please send " +
		"your full name, your email address and a password in one message. If you have used this assistant " +
		"before, use the same email and password as last time."

	IncorrectPasswordMessage = "The password you entered does not match our records for that email address. " +
		"Please send your name, email and the correct password again."
)

// FirstInteractionNote is cached as the system instructions of a client's
// first interaction.
const FirstInteractionNote = "This is the client's first interaction with the firm. There is no prior history."

const newClientInstructions = `
The client %s has just been registered in our system for the first time.
Welcome them to the firm and confirm that their details have been recorded.
`

const returningClientInstructions = `
The client %s is a returning client and has been verified.
Welcome them back and do not ask for their credentials again.
`

const elicitDepartmentInstructions = `
This interaction is to onboard a client to a law firm.
The client has not been assigned to a department yet.
Ask clarifying questions about their legal needs and propose the department that can best assist them.
Once the department is clear, ask the client to confirm it by name.
The available departments are: %s.
`

const transferInstructions = `
The client asked to be transferred from the %s department to the %s department.
Acknowledge the transfer and continue the onboarding for the new department.
`

func identityFragment(name string, returning bool) string {
	if returning {
		return strings.TrimSpace(fmt.Sprintf(returningClientInstructions, name))
	}
	return strings.TrimSpace(fmt.Sprintf(newClientInstructions, name))
}

func elicitDepartmentFragment(departments []string) string {
	return strings.TrimSpace(fmt.Sprintf(elicitDepartmentInstructions, strings.Join(departments, ", ")))
}

func transferFragment(from, to string) string {
	return strings.TrimSpace(fmt.Sprintf(transferInstructions, from, to))
}

// joinFragments drops empty fragments and separates the rest with blank lines.
func joinFragments(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n\n")
}
