package service

import (
	"context"
	"fmt"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCache is the read-through cache used by the session store. A nil
// cache disables caching.
type SessionCache interface {
	GetList(ctx context.Context) ([]domain.Session, error)
	SetList(ctx context.Context, sessions []domain.Session) error
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Invalidate(ctx context.Context, id primitive.ObjectID) error
	InvalidateList(ctx context.Context) error
}

// SessionService handles session persistence operations
type SessionService struct {
	repo  domain.SessionRepository
	cache SessionCache
}

// NewSessionService creates a new session service
func NewSessionService(repo domain.SessionRepository, cache SessionCache) *SessionService {
	return &SessionService{repo: repo, cache: cache}
}

// Create stores a new session, filling in defaults so every stored document
// has the full field set: empty slices instead of nil, lastPrompt falls back
// to the prompt and lastGenerated* to the current artifact.
func (s *SessionService) Create(ctx context.Context, draft domain.SessionDraft) (*domain.Session, error) {
	session := &domain.Session{
		Prompt:              draft.Prompt,
		Description:         draft.Description,
		Tags:                draft.Tags,
		ComponentsCount:     draft.ComponentsCount,
		ChatMessages:        draft.ChatMessages,
		CurrentJSX:          draft.CurrentJSX,
		CurrentCSS:          draft.CurrentCSS,
		LastPrompt:          draft.LastPrompt,
		LastGeneratedJSX:    draft.LastGeneratedJSX,
		LastGeneratedCSS:    draft.LastGeneratedCSS,
		GeneratedComponents: draft.GeneratedComponents,
	}

	if session.Tags == nil {
		session.Tags = []string{}
	}
	if session.ChatMessages == nil {
		session.ChatMessages = []domain.ChatTurn{}
	}
	if session.GeneratedComponents == nil {
		session.GeneratedComponents = []string{}
	}
	if session.LastPrompt == "" {
		session.LastPrompt = session.Prompt
	}
	if session.LastGeneratedJSX == "" {
		session.LastGeneratedJSX = session.CurrentJSX
	}
	if session.LastGeneratedCSS == "" {
		session.LastGeneratedCSS = session.CurrentCSS
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return session, nil
}

// List returns all sessions, newest first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, sessions); err != nil {
			log.Warn().Err(err).Msg("failed to cache session list")
		}
	}
	return sessions, nil
}

// Get returns a single session by id.
func (s *SessionService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, session); err != nil {
			log.Warn().Err(err).Str("session_id", id.Hex()).Msg("failed to cache session")
		}
	}
	return session, nil
}

// Update overwrites the carried fields on a session. Repeating the same
// update is a no-op, which is what makes autosave retries safe.
func (s *SessionService) Update(ctx context.Context, id primitive.ObjectID, update domain.SessionUpdate) (*domain.Session, error) {
	session, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return session, nil
}

// AppendTurn appends a user/assistant turn pair to a session and folds the
// generation artifact into the rolling session fields. The user turn is
// enhanced with the prompt and artifact; the assistant turn's responseText
// echoes its display text. An empty artifact keeps the previous code.
func (s *SessionService) AppendTurn(ctx context.Context, id primitive.ObjectID, input domain.AddTurnInput) (*domain.Session, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	userTurn := input.UserTurn
	userTurn.Body = domain.UserPrompt{
		Message:      input.UserTurn.Text(),
		Prompt:       input.Prompt,
		GeneratedJSX: input.GeneratedJSX,
		GeneratedCSS: input.GeneratedCSS,
	}

	aiTurn := input.AITurn
	aiTurn.Body = domain.AssistantReply{
		Message:      input.AITurn.Text(),
		ResponseText: input.AITurn.Text(),
	}

	chatMessages := append(append([]domain.ChatTurn{}, session.ChatMessages...), userTurn, aiTurn)

	currentJSX := session.CurrentJSX
	if input.GeneratedJSX != "" {
		currentJSX = input.GeneratedJSX
	}
	currentCSS := session.CurrentCSS
	if input.GeneratedCSS != "" {
		currentCSS = input.GeneratedCSS
	}
	lastGeneratedJSX := session.LastGeneratedJSX
	if input.GeneratedJSX != "" {
		lastGeneratedJSX = input.GeneratedJSX
	}
	lastGeneratedCSS := session.LastGeneratedCSS
	if input.GeneratedCSS != "" {
		lastGeneratedCSS = input.GeneratedCSS
	}

	generated := append([]string{}, session.GeneratedComponents...)
	if input.GeneratedJSX != "" {
		generated = append(generated, input.GeneratedJSX)
	}

	update := domain.SessionUpdate{
		ChatMessages:        &chatMessages,
		CurrentJSX:          &currentJSX,
		CurrentCSS:          &currentCSS,
		LastPrompt:          &input.Prompt,
		LastGeneratedJSX:    &lastGeneratedJSX,
		LastGeneratedCSS:    &lastGeneratedCSS,
		GeneratedComponents: &generated,
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes a session and returns the deleted document.
func (s *SessionService) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return session, nil
}

func (s *SessionService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("session_id", id.Hex()).Msg("failed to invalidate session cache")
	}
}

func (s *SessionService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateList(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate session list cache")
	}
}
