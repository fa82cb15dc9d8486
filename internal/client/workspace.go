package client

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/rs/zerolog/log"
)

// Greeting is the assistant turn every fresh transcript opens with.
const Greeting = "Hello! I'm your AI assistant. Describe the component you'd like me to create for you."

// Workspace drives the interactive session flow: restore on startup,
// generate on demand, flush on a schedule.
type Workspace struct {
	service *Service
	state   *State

	// loaded arms once a restore has completed; autosave must not write
	// earlier or it would overwrite the stored transcript with the
	// placeholder greeting.
	loaded atomic.Bool
}

// NewWorkspace creates a workspace over a service and state container.
func NewWorkspace(service *Service, state *State) *Workspace {
	return &Workspace{service: service, state: state}
}

// Loaded reports whether a restore has completed.
func (w *Workspace) Loaded() bool {
	return w.loaded.Load()
}

// Restore pulls the session list from the server and rehydrates the active
// session from its full server document. A mirror pointing at a session the
// server no longer has falls back to an empty workspace. Restore always
// arms the autosave gate, even when the server is unreachable with a
// previously-mirrored transcript on screen.
func (w *Workspace) Restore(ctx context.Context) error {
	defer w.loaded.Store(true)

	sessions, err := w.service.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}

	prevActive := w.state.Active()
	w.state.SetSessions(sessions)

	if prevActive == nil {
		return nil
	}

	for _, sess := range sessions {
		if sess.ID == prevActive.ID {
			full, err := w.service.GetSession(ctx, sess.ID.Hex())
			if err != nil {
				log.Warn().Err(err).Str("session_id", sess.ID.Hex()).Msg("failed to rehydrate active session")
				w.state.SetActive(&sess)
				return nil
			}
			w.state.SetActive(full)
			return nil
		}
	}

	// The mirrored active session is gone server-side.
	w.state.SetActive(nil)
	return nil
}

// Generate runs one prompt through the generation flow. The artifact and
// turn pair land in the active session, or seed a new session when none is
// active. Generation errors are folded into the transcript as an assistant
// turn instead of failing the workspace.
func (w *Workspace) Generate(ctx context.Context, prompt string) (*domain.Session, error) {
	active := w.state.Active()

	sessionID := ""
	if active != nil {
		sessionID = active.ID.Hex()
	}

	session, err := w.service.GenerateAndStore(ctx, sessionID, prompt)
	if err != nil {
		w.foldError(prompt, err)
		return nil, err
	}

	if active == nil {
		w.state.AddSession(*session)
	} else {
		w.state.UpdateActive(domain.SessionUpdate{
			ChatMessages:        &session.ChatMessages,
			CurrentJSX:          &session.CurrentJSX,
			CurrentCSS:          &session.CurrentCSS,
			GeneratedComponents: &session.GeneratedComponents,
			LastPrompt:          &session.LastPrompt,
			LastGeneratedJSX:    &session.LastGeneratedJSX,
			LastGeneratedCSS:    &session.LastGeneratedCSS,
		})
	}

	return session, nil
}

// foldError records a failed generation as a turn pair so the transcript
// keeps the prompt and the failure.
func (w *Workspace) foldError(prompt string, genErr error) {
	active := w.state.Active()
	if active == nil {
		return
	}

	turns := append(append([]domain.ChatTurn{}, active.ChatMessages...),
		domain.NewUserTurn(prompt, "", ""),
		domain.NewAssistantTurn(fmt.Sprintf("Error generating component: %s", genErr.Error())),
	)
	w.state.UpdateActive(domain.SessionUpdate{ChatMessages: &turns})
}

// Flush writes the active session's state back to the server. It is a
// no-op before restore completes, when no session is active, or when the
// session has nothing worth saving (no artifact and only the greeting).
// Failures are logged and swallowed; the next tick retries.
func (w *Workspace) Flush(ctx context.Context) {
	if !w.loaded.Load() {
		return
	}

	active := w.state.Active()
	if active == nil {
		return
	}

	if active.CurrentJSX == "" && active.CurrentCSS == "" && len(active.ChatMessages) <= 1 {
		return
	}

	turns := FormatTurnsForStorage(active.ChatMessages)
	update := domain.SessionUpdate{
		ChatMessages:        &turns,
		CurrentJSX:          &active.CurrentJSX,
		CurrentCSS:          &active.CurrentCSS,
		GeneratedComponents: &active.GeneratedComponents,
		LastPrompt:          &active.LastPrompt,
		LastGeneratedJSX:    &active.LastGeneratedJSX,
		LastGeneratedCSS:    &active.LastGeneratedCSS,
	}

	saved, err := w.service.UpdateSession(ctx, active.ID.Hex(), update)
	if err != nil {
		log.Warn().Err(err).Str("session_id", active.ID.Hex()).Msg("autosave failed")
		return
	}

	w.state.UpdateActive(domain.SessionUpdate{ChatMessages: &saved.ChatMessages})
}
