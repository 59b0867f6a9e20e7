package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/intake-agent/internal/app/agentflow"
	"github.com/PabloGalante/intake-agent/internal/app/departments"
	"github.com/PabloGalante/intake-agent/internal/domain"
	"github.com/PabloGalante/intake-agent/internal/observability"
)

type Service struct {
	llm          domain.LLMClient
	departments  domain.DepartmentStore
	clients      domain.ClientStore
	interactions domain.InteractionStore
	locker       domain.TurnLocker
	credentials  Credential
	now          func() time.Time

	extractor  *agentflow.Extractor
	router     *agentflow.Router
	summarizer *agentflow.Summarizer
}

// NewService wires the onboarding flow. A nil locker disables per-interaction
// serialization.
func NewService(
	llm domain.LLMClient,
	departmentStore domain.DepartmentStore,
	clientStore domain.ClientStore,
	interactionStore domain.InteractionStore,
	summarizer *agentflow.Summarizer,
	locker domain.TurnLocker,
) *Service {
	if summarizer == nil {
		summarizer = agentflow.NewSummarizer(llm, nil, 0)
	}
	return &Service{
		llm:          llm,
		departments:  departmentStore,
		clients:      clientStore,
		interactions: interactionStore,
		locker:       locker,
		credentials:  PlaintextCredential{},
		now:          time.Now,
		extractor:    agentflow.NewExtractor(llm),
		router:       agentflow.NewRouter(llm),
		summarizer:   summarizer,
	}
}

// WithCredential replaces the password policy.
func (s *Service) WithCredential(c Credential) *Service {
	s.credentials = c
	return s
}

type HandleTurnInput struct {
	Text          string
	InteractionID *domain.InteractionID
}

type HandleTurnOutput struct {
	Reply         string
	InteractionID domain.InteractionID
	Outcome       string
}

// turn carries the state built up while one message is processed.
type turn struct {
	log         *slog.Logger
	text        string
	interaction *domain.Interaction
	client      *domain.Client
	names       []string
	candidate   string
	fragments   []string
}

// HandleTurn processes one client message against an interaction and returns
// the reply. Unknown or missing interaction ids start a new interaction.
func (s *Service) HandleTurn(ctx context.Context, in HandleTurnInput) (out *HandleTurnOutput, err error) {
	start := time.Now()
	defer func() {
		outcome := observability.OutcomeError
		if err == nil {
			outcome = out.Outcome
		}
		observability.RecordTurn(outcome, time.Since(start))
	}()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	if in.InteractionID != nil && s.locker != nil {
		unlock, err := s.locker.Lock(ctx, strconv.FormatInt(int64(*in.InteractionID), 10))
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	interaction, err := s.resolveInteraction(ctx, in.InteractionID)
	if err != nil {
		return nil, err
	}

	t := &turn{
		log:         observability.LoggerFromContext(ctx).With("interaction_id", interaction.ID),
		text:        text,
		interaction: interaction,
	}
	t.log.Info("handling turn",
		"has_client", interaction.ClientID != nil,
		"has_department", interaction.DepartmentID != nil,
	)

	if t.names, err = departments.Names(ctx, s.departments); err != nil {
		return nil, err
	}

	if interaction.ClientID == nil {
		reply, outcome, err := s.identify(ctx, t)
		if err != nil {
			t.log.Error("identity step failed", "error", err)
			return nil, err
		}
		if reply != "" {
			t.log.Info("turn short-circuited", "outcome", outcome)
			return &HandleTurnOutput{Reply: reply, InteractionID: interaction.ID, Outcome: outcome}, nil
		}
	} else if t.client, err = s.clients.GetClient(ctx, *interaction.ClientID); err != nil {
		t.log.Error("failed to load client", "error", err)
		return nil, err
	}

	if err := s.attachSummary(ctx, t); err != nil {
		t.log.Error("summary step failed", "error", err)
		return nil, err
	}

	if interaction.DepartmentID == nil {
		err = s.assignDepartment(ctx, t)
	} else {
		err = s.routeDepartment(ctx, t)
	}
	if err != nil {
		t.log.Error("department step failed", "error", err)
		return nil, err
	}

	reply, err := s.chat(ctx, t)
	if err != nil {
		t.log.Error("chat failed", "error", err)
		return nil, err
	}

	t.log.Info("turn completed", "turns", len(interaction.Conversation))
	return &HandleTurnOutput{
		Reply:         reply,
		InteractionID: interaction.ID,
		Outcome:       observability.OutcomeReplied,
	}, nil
}

func (s *Service) resolveInteraction(ctx context.Context, id *domain.InteractionID) (*domain.Interaction, error) {
	if id != nil {
		interaction, err := s.interactions.GetInteraction(ctx, *id)
		if err == nil {
			return interaction, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load interaction: %w", err)
		}
		observability.LoggerFromContext(ctx).Info("interaction not found, starting a new one", "requested_id", *id)
	}

	now := s.now()
	interaction := &domain.Interaction{
		Conversation: []domain.Turn{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.interactions.CreateInteraction(ctx, interaction); err != nil {
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	return interaction, nil
}

// identify resolves the client from the message. A non-empty reply ends the
// turn without a model call and without touching the conversation.
func (s *Service) identify(ctx context.Context, t *turn) (reply, outcome string, err error) {
	info, err := s.extractor.Extract(ctx, t.text, t.names)
	if err != nil {
		return "", "", err
	}
	if !info.HasCredentials() {
		return MissingCredentialsMessage, observability.OutcomeMissingIdentity, nil
	}

	returning := true
	client, err := s.clients.GetClientByEmail(ctx, info.Email)
	if errors.Is(err, domain.ErrNotFound) {
		client, err = s.createClient(ctx, info)
		switch {
		case err == nil:
			returning = false
			t.log.Info("client created", "client_id", client.ID)
		case errors.Is(err, domain.ErrAlreadyExists):
			// Another interaction registered the same email first.
			t.log.Info("client registered concurrently, verifying as returning client")
			client, err = s.clients.GetClientByEmail(ctx, info.Email)
		default:
			return "", "", err
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("look up client: %w", err)
	}
	if returning && !s.credentials.Verify(client.Password, info.Password) {
		t.log.Warn("incorrect password for existing client", "client_id", client.ID)
		return IncorrectPasswordMessage, observability.OutcomeWrongPassword, nil
	}

	t.client = client
	t.fragments = append(t.fragments, identityFragment(client.Name, returning))

	i := t.interaction
	i.ClientID = &client.ID
	if i.Title == "" {
		i.Title = fmt.Sprintf("Onboarding of %s", client.Name)
	}
	if err := s.save(ctx, i); err != nil {
		return "", "", err
	}

	if i.DepartmentID == nil {
		t.candidate = info.Department
	}
	return "", "", nil
}

func (s *Service) createClient(ctx context.Context, info agentflow.ExtractedInfo) (*domain.Client, error) {
	sealed, err := s.credentials.Seal(info.Password)
	if err != nil {
		return nil, fmt.Errorf("seal password: %w", err)
	}
	now := s.now()
	client := &domain.Client{
		Name:      info.Name,
		Email:     info.Email,
		Password:  sealed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// attachSummary computes the history summary once per interaction and adds
// it to the system instruction.
func (s *Service) attachSummary(ctx context.Context, t *turn) error {
	i := t.interaction
	if i.SystemInstructions != "" {
		t.fragments = append(t.fragments, i.SystemInstructions)
		return nil
	}

	all, err := s.interactions.ListInteractionsByClient(ctx, t.client.ID)
	if err != nil {
		return fmt.Errorf("list client interactions: %w", err)
	}

	var (
		blocks []string
		names  = make(map[domain.DepartmentID]string)
	)
	for _, other := range all {
		if other.ID == i.ID {
			continue
		}
		blocks = append(blocks, agentflow.FormatPriorInteraction(s.departmentName(ctx, other.DepartmentID, names), other.Conversation))
	}

	if len(blocks) == 0 {
		i.SystemInstructions = FirstInteractionNote
	} else {
		t.log.Info("summarizing prior interactions", "count", len(blocks))
		summary, err := s.summarizer.Summarize(ctx, strings.Join(blocks, "\n"))
		if err != nil {
			return err
		}
		i.SystemInstructions = summary
	}
	if err := s.save(ctx, i); err != nil {
		return err
	}

	t.fragments = append(t.fragments, i.SystemInstructions)
	return nil
}

// departmentName returns "" for unset or missing departments.
func (s *Service) departmentName(ctx context.Context, id *domain.DepartmentID, cache map[domain.DepartmentID]string) string {
	if id == nil {
		return ""
	}
	if name, ok := cache[*id]; ok {
		return name
	}
	d, err := s.departments.GetDepartment(ctx, *id)
	if err != nil {
		cache[*id] = ""
		return ""
	}
	cache[*id] = d.Name
	return d.Name
}

func (s *Service) assignDepartment(ctx context.Context, t *turn) error {
	d, err := s.lookupDepartment(ctx, t.names, t.candidate)
	if err != nil {
		return err
	}
	if d == nil {
		t.fragments = append(t.fragments, elicitDepartmentFragment(t.names))
		return nil
	}

	if err := s.setDepartment(ctx, t, d); err != nil {
		return err
	}
	t.log.Info("department assigned", "department", d.Name)
	t.fragments = append(t.fragments, d.Prompt)
	return nil
}

func (s *Service) routeDepartment(ctx context.Context, t *turn) error {
	current, err := s.departments.GetDepartment(ctx, *t.interaction.DepartmentID)
	if errors.Is(err, domain.ErrNotFound) {
		// The stored department vanished; fall back to eliciting a new one.
		t.interaction.DepartmentID = nil
		return s.assignDepartment(ctx, t)
	}
	if err != nil {
		return fmt.Errorf("load department: %w", err)
	}

	name, changed, err := s.router.Route(ctx, t.text, current.Name, t.names)
	if err != nil {
		return err
	}

	var next *domain.Department
	if changed {
		if next, err = s.lookupDepartment(ctx, t.names, name); err != nil {
			return err
		}
	}
	if next == nil || next.ID == current.ID {
		t.fragments = append(t.fragments, current.Prompt)
		return nil
	}

	if err := s.setDepartment(ctx, t, next); err != nil {
		return err
	}
	observability.RecordDepartmentTransfer()
	t.log.Info("department transferred", "from", current.Name, "to", next.Name)
	t.fragments = append(t.fragments, transferFragment(current.Name, next.Name), next.Prompt)
	return nil
}

// lookupDepartment returns nil for names outside the catalog.
func (s *Service) lookupDepartment(ctx context.Context, names []string, name string) (*domain.Department, error) {
	if name == "" || !slices.Contains(names, name) {
		return nil, nil
	}
	d, err := s.departments.GetDepartmentByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load department %q: %w", name, err)
	}
	return d, nil
}

func (s *Service) setDepartment(ctx context.Context, t *turn, d *domain.Department) error {
	t.interaction.DepartmentID = &d.ID
	if err := s.save(ctx, t.interaction); err != nil {
		return err
	}
	if err := s.clients.AddClientDepartment(ctx, t.client.ID, d.ID); err != nil {
		return fmt.Errorf("record client department: %w", err)
	}
	return nil
}

func (s *Service) chat(ctx context.Context, t *turn) (string, error) {
	i := t.interaction

	session, err := s.llm.OpenChat(ctx, i.Conversation, joinFragments(t.fragments))
	if err != nil {
		return "", fmt.Errorf("open chat: %w", err)
	}
	reply, err := session.Send(ctx, t.text)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	history, err := session.History()
	if err != nil {
		return "", fmt.Errorf("read chat history: %w", err)
	}

	i.Conversation = history
	if err := s.save(ctx, i); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *Service) save(ctx context.Context, i *domain.Interaction) error {
	i.UpdatedAt = s.now()
	if err := s.interactions.UpdateInteraction(ctx, i); err != nil {
		return fmt.Errorf("save interaction: %w", err)
	}
	return nil
}

// GetInteraction returns an interaction with its full conversation.
func (s *Service) GetInteraction(ctx context.Context, id domain.InteractionID) (*domain.Interaction, error) {
	interaction, err := s.interactions.GetInteraction(ctx, id)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to get interaction", "interaction_id", id, "error", err)
		return nil, err
	}
	return interaction, nil
}
