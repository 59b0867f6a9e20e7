package agentflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

// messageMarker precedes the raw client text in every structured prompt.
const messageMarker = "Client message:"

// Router decides whether a client asks to move to another department.
type Router struct {
	llm domain.LLMClient
}

func NewRouter(llm domain.LLMClient) *Router {
	return &Router{llm: llm}
}

type routeResponse struct {
	Department *string `json:"department"`
}

// Route returns the department the client wants and whether it differs from
// current. The name is not checked against the catalog; callers do that.
func (r *Router) Route(ctx context.Context, text, current string, allowed []string) (string, bool, error) {
	prompt := fmt.Sprintf(
		"The client is currently assigned to the %s department of a law firm. Decide whether the client message "+
			"below asks to be handled by a different department. Answer with that department only if the "+
			"message clearly requests it; otherwise leave it empty.\nAvailable departments: %s.\n\n%s\n%s",
		current, strings.Join(allowed, ", "), messageMarker, text,
	)

	schema := domain.Schema{Fields: []domain.SchemaField{{
		Name:        "department",
		Description: "The department the client now wants, or empty when no transfer is requested.",
		Enum:        allowed,
	}}}

	raw, err := r.llm.CompleteStructured(ctx, prompt, schema)
	if err != nil {
		return "", false, fmt.Errorf("route department: %w", err)
	}

	var resp routeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", false, fmt.Errorf("route department: %w: %v", domain.ErrSchemaViolation, err)
	}
	if resp.Department == nil {
		return "", false, nil
	}
	name := strings.TrimSpace(*resp.Department)
	if name == "" || name == current {
		return name, false, nil
	}
	return name, true, nil
}
