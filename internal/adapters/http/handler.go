package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloGalante/intake-agent/internal/app/attorney"
	"github.com/PabloGalante/intake-agent/internal/app/departments"
	"github.com/PabloGalante/intake-agent/internal/app/documents"
	"github.com/PabloGalante/intake-agent/internal/app/intake"
	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

type Server struct {
	intake      *intake.Service
	attorney    *attorney.Service
	documents   *documents.Service
	departments domain.DepartmentStore
}

// NewServer builds the gin engine with every route and middleware.
func NewServer(
	intakeSvc *intake.Service,
	attorneySvc *attorney.Service,
	documentsSvc *documents.Service,
	departmentStore domain.DepartmentStore,
) http.Handler {
	s := &Server{
		intake:      intakeSvc,
		attorney:    attorneySvc,
		documents:   documentsSvc,
		departments: departmentStore,
	}

	r := gin.New()
	r.Use(gin.Recovery(), withRequestID(), withCORS(), withLogging(), withMetrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/message/", s.handleMessage)
	api.POST("/attorney_message/", s.handleAttorneyMessage)
	api.GET("/departments", s.handleListDepartments)
	api.GET("/interactions/:id", s.handleGetInteraction)
	api.GET("/interactions/:id/documents", s.handleListDocuments)
	api.POST("/interactions/:id/documents", s.handleAttachDocument)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

// messageRequest accepts "prompt" as an alias of "message".
type messageRequest struct {
	Message       string          `json:"message"`
	Prompt        string          `json:"prompt"`
	InteractionID json.RawMessage `json:"interaction_id"`
}

func (r messageRequest) text() string {
	if strings.TrimSpace(r.Prompt) != "" {
		return r.Prompt
	}
	return r.Message
}

type messageResponse struct {
	Status         string                `json:"status"`
	Message        string                `json:"message"`
	OriginalPrompt string                `json:"original_prompt"`
	GeminiResponse string                `json:"gemini_response"`
	InteractionID  *domain.InteractionID `json:"interaction_id,omitempty"`
}

type interactionResponse struct {
	ID                 domain.InteractionID `json:"id"`
	ClientID           *domain.ClientID     `json:"client_id"`
	DepartmentID       *domain.DepartmentID `json:"department_id"`
	Title              string               `json:"title"`
	SystemInstructions string               `json:"system_instructions"`
	Conversation       []domain.Turn        `json:"conversation"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type attachDocumentRequest struct {
	FileName string `json:"file_name"`
	FileRef  string `json:"file_ref"`
	FileType string `json:"file_type"`
}

type documentResponse struct {
	ID            domain.DocumentID    `json:"id"`
	InteractionID domain.InteractionID `json:"interaction_id"`
	FileName      string               `json:"file_name"`
	FileRef       string               `json:"file_ref"`
	FileType      string               `json:"file_type"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	id, err := parseOptionalID(req.InteractionID)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := req.text()
	if strings.TrimSpace(text) == "" {
		errorJSON(c, http.StatusBadRequest, "No prompt provided")
		return
	}

	out, err := s.intake.HandleTurn(c.Request.Context(), intake.HandleTurnInput{
		Text:          text,
		InteractionID: id,
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{
		Status:         "success",
		Message:        "Message received",
		OriginalPrompt: text,
		GeminiResponse: out.Reply,
		InteractionID:  &out.InteractionID,
	})
}

func (s *Server) handleAttorneyMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := req.text()
	if strings.TrimSpace(text) == "" {
		errorJSON(c, http.StatusBadRequest, "No prompt provided")
		return
	}

	reply, err := s.attorney.Respond(c.Request.Context(), text)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{
		Status:         "success",
		Message:        "Message received",
		OriginalPrompt: text,
		GeminiResponse: reply,
	})
}

func (s *Server) handleListDepartments(c *gin.Context) {
	names, err := departments.Names(c.Request.Context(), s.departments)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": names})
}

func (s *Server) handleGetInteraction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	i, err := s.intake.GetInteraction(c.Request.Context(), id)
	if err != nil {
		lookupError(c, err)
		return
	}

	conversation := i.Conversation
	if conversation == nil {
		conversation = []domain.Turn{}
	}
	c.JSON(http.StatusOK, interactionResponse{
		ID:                 i.ID,
		ClientID:           i.ClientID,
		DepartmentID:       i.DepartmentID,
		Title:              i.Title,
		SystemInstructions: i.SystemInstructions,
		Conversation:       conversation,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	})
}

func (s *Server) handleListDocuments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	docs, err := s.documents.List(c.Request.Context(), id)
	if err != nil {
		lookupError(c, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

func (s *Server) handleAttachDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req attachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.FileRef) == "" {
		errorJSON(c, http.StatusBadRequest, "file_name and file_ref are required")
		return
	}

	doc, err := s.documents.Attach(c.Request.Context(), id, documents.AttachInput{
		FileName: req.FileName,
		FileRef:  req.FileRef,
		FileType: req.FileType,
	})
	if err != nil {
		lookupError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

// parseOptionalID accepts a JSON number, a numeric string, null, or nothing.
// Zero and empty values mean "start a new interaction".
func parseOptionalID(raw json.RawMessage) (*domain.InteractionID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	} else {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	id := domain.InteractionID(n)
	return &id, nil
}

func pathID(c *gin.Context) (domain.InteractionID, bool) {
	n, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || n <= 0 {
		errorJSON(c, http.StatusBadRequest, "invalid interaction id")
		return 0, false
	}
	return domain.InteractionID(n), true
}

func toDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:            d.ID,
		InteractionID: d.InteractionID,
		FileName:      d.FileName,
		FileRef:       d.FileRef,
		FileType:      d.FileType,
		CreatedAt:     d.CreatedAt,
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": msg,
	})
}

func lookupError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	}
	internalError(c, err)
}

func internalError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrEmptyMessage) {
		errorJSON(c, http.StatusBadRequest, "No prompt provided")
		return
	}
	observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
	errorJSON(c, http.StatusInternalServerError, err.Error())
}
