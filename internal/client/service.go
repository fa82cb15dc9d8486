// Package client is the workspace-side counterpart of the API: an HTTP
// facade over the session and generation endpoints, a persisted state
// container, and the autosave loop that keeps the two in sync.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/llm"
)

// envelope mirrors the API response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

// Service is the HTTP facade over the component generation API.
type Service struct {
	http *resty.Client
}

// NewService creates a service talking to the given base URL, e.g.
// "http://localhost:8080".
func NewService(baseURL string) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(120 * time.Second)

	return &Service{http: client}
}

// SetAuthToken sets the bearer token used for authenticated requests.
func (s *Service) SetAuthToken(token string) {
	s.http.SetAuthToken(token)
}

// AuthToken returns the current bearer token, empty if unauthenticated.
func (s *Service) AuthToken() string {
	return s.http.Token
}

func decodeEnvelope(resp *resty.Response, out any) error {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if !env.Success {
		return fmt.Errorf("request failed: %v", env.Error)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("malformed response data: %w", err)
	}
	return nil
}

// CreateSession creates a new session.
func (s *Service) CreateSession(ctx context.Context, draft domain.SessionDraft) (*domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).SetBody(draft).Post("/api/sessions")
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	var session domain.Session
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/sessions")
	if err != nil {
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}

	var sessions []domain.Session
	if err := decodeEnvelope(resp, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession fetches a single session by hex id.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/sessions/" + id)
	if err != nil {
		return nil, fmt.Errorf("error fetching session: %w", err)
	}

	var session domain.Session
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession overwrites the carried fields on a session.
func (s *Service) UpdateSession(ctx context.Context, id string, update domain.SessionUpdate) (*domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).SetBody(update).Put("/api/sessions/" + id)
	if err != nil {
		return nil, fmt.Errorf("error updating session: %w", err)
	}

	var session domain.Session
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AddMessage appends a turn pair and artifact to a session.
func (s *Service) AddMessage(ctx context.Context, id string, input domain.AddTurnInput) (*domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).SetBody(input).Post("/api/sessions/" + id + "/add-message")
	if err != nil {
		return nil, fmt.Errorf("error adding message to session: %w", err)
	}

	var session domain.Session
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session and returns the deleted document.
func (s *Service) DeleteSession(ctx context.Context, id string) (*domain.Session, error) {
	resp, err := s.http.R().SetContext(ctx).Delete("/api/sessions/" + id)
	if err != nil {
		return nil, fmt.Errorf("error deleting session: %w", err)
	}

	var session domain.Session
	if err := decodeEnvelope(resp, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GenerateComponent asks the server to generate an artifact for a prompt.
func (s *Service) GenerateComponent(ctx context.Context, prompt string) (*llm.Component, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"prompt": prompt}).
		Post("/api/llm/generate-component")
	if err != nil {
		return nil, fmt.Errorf("error generating component: %w", err)
	}

	var component llm.Component
	if err := decodeEnvelope(resp, &component); err != nil {
		return nil, err
	}
	return &component, nil
}

// GenerateAndStore generates a component for the prompt and folds it into
// the session: appended to an existing session, or seeding a brand-new one
// when sessionID is empty.
func (s *Service) GenerateAndStore(ctx context.Context, sessionID, prompt string) (*domain.Session, error) {
	component, err := s.GenerateComponent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	reply := fmt.Sprintf("I've created a component based on your prompt: %q. Check the 'Preview' and 'Code' tabs on the right!", prompt)
	userTurn := domain.NewUserTurn(prompt, component.JSX, component.CSS)
	aiTurn := domain.NewAssistantTurn(reply)

	if sessionID != "" {
		return s.AddMessage(ctx, sessionID, domain.AddTurnInput{
			UserTurn:     userTurn,
			AITurn:       aiTurn,
			GeneratedJSX: component.JSX,
			GeneratedCSS: component.CSS,
			Prompt:       prompt,
		})
	}

	draft := domain.SessionDraft{
		Prompt:              prompt,
		Description:         fmt.Sprintf("Component generated from: %s", prompt),
		Tags:                []string{},
		ComponentsCount:     1,
		ChatMessages:        []domain.ChatTurn{userTurn, aiTurn},
		CurrentJSX:          component.JSX,
		CurrentCSS:          component.CSS,
		LastPrompt:          prompt,
		LastGeneratedJSX:    component.JSX,
		LastGeneratedCSS:    component.CSS,
		GeneratedComponents: []string{component.JSX},
	}
	return s.CreateSession(ctx, draft)
}

// Signup registers a new account and keeps the returned token.
func (s *Service) Signup(ctx context.Context, input domain.UserSignup) error {
	resp, err := s.http.R().SetContext(ctx).SetBody(input).Post("/api/user/signup")
	if err != nil {
		return fmt.Errorf("error signing up: %w", err)
	}
	if err := decodeEnvelope(resp, nil); err != nil {
		return err
	}
	s.adoptTokenCookie(resp)
	return nil
}

// Login authenticates and keeps the returned token.
func (s *Service) Login(ctx context.Context, input domain.UserLogin) error {
	resp, err := s.http.R().SetContext(ctx).SetBody(input).Post("/api/user/login")
	if err != nil {
		return fmt.Errorf("error logging in: %w", err)
	}
	if err := decodeEnvelope(resp, nil); err != nil {
		return err
	}
	s.adoptTokenCookie(resp)
	return nil
}

// Logout clears the server cookie and the local token.
func (s *Service) Logout(ctx context.Context) error {
	resp, err := s.http.R().SetContext(ctx).Post("/api/user/logout")
	if err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	if err := decodeEnvelope(resp, nil); err != nil {
		return err
	}
	s.SetAuthToken("")
	return nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	resp, err := s.http.R().SetContext(ctx).Get("/api/user/me")
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	var user domain.User
	if err := decodeEnvelope(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// adoptTokenCookie promotes the server's auth cookie into a bearer token so
// subsequent requests authenticate without a cookie jar.
func (s *Service) adoptTokenCookie(resp *resty.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" && cookie.Value != "" {
			s.SetAuthToken(cookie.Value)
			return
		}
	}
}

// FormatTurnsForStorage canonicalizes turn times before a save: every time
// becomes UTC and a zero time becomes now.
func FormatTurnsForStorage(turns []domain.ChatTurn) []domain.ChatTurn {
	out := make([]domain.ChatTurn, len(turns))
	for i, t := range turns {
		if t.Time.IsZero() {
			t.Time = time.Now().UTC()
		} else {
			t.Time = t.Time.UTC()
		}
		out[i] = t
	}
	return out
}
