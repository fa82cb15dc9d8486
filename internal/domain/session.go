package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a persisted unit of work: one chat transcript plus its latest
// generated artifact. Field names match the stored document shape.
type Session struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Prompt              string             `bson:"prompt" json:"prompt"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags                []string           `bson:"tags" json:"tags"`
	ComponentsCount     int                `bson:"componentsCount" json:"componentsCount"`
	ChatMessages        []ChatTurn         `bson:"chatMessages" json:"chatMessages"`
	CurrentJSX          string             `bson:"currentJsx" json:"currentJsx"`
	CurrentCSS          string             `bson:"currentCss" json:"currentCss"`
	LastPrompt          string             `bson:"lastPrompt,omitempty" json:"lastPrompt,omitempty"`
	LastGeneratedJSX    string             `bson:"lastGeneratedJsx,omitempty" json:"lastGeneratedJsx,omitempty"`
	LastGeneratedCSS    string             `bson:"lastGeneratedCss,omitempty" json:"lastGeneratedCss,omitempty"`
	GeneratedComponents []string           `bson:"generatedComponents" json:"generatedComponents"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SessionDraft is the creation payload. Only the prompt is required; the
// store fills in defaults for everything else.
type SessionDraft struct {
	Prompt              string     `json:"prompt" validate:"required"`
	Description         string     `json:"description"`
	Tags                []string   `json:"tags"`
	ComponentsCount     int        `json:"componentsCount"`
	ChatMessages        []ChatTurn `json:"chatMessages"`
	CurrentJSX          string     `json:"currentJsx"`
	CurrentCSS          string     `json:"currentCss"`
	LastPrompt          string     `json:"lastPrompt"`
	LastGeneratedJSX    string     `json:"lastGeneratedJsx"`
	LastGeneratedCSS    string     `json:"lastGeneratedCss"`
	GeneratedComponents []string   `json:"generatedComponents"`
}

// SessionUpdate carries the whitelisted partial-update fields. Nil pointers
// mean "leave unchanged"; the update is a plain field overwrite so repeating
// it is idempotent.
type SessionUpdate struct {
	ChatMessages        *[]ChatTurn `json:"chatMessages,omitempty"`
	CurrentJSX          *string     `json:"currentJsx,omitempty"`
	CurrentCSS          *string     `json:"currentCss,omitempty"`
	GeneratedComponents *[]string   `json:"generatedComponents,omitempty"`
	LastPrompt          *string     `json:"lastPrompt,omitempty"`
	LastGeneratedJSX    *string     `json:"lastGeneratedJsx,omitempty"`
	LastGeneratedCSS    *string     `json:"lastGeneratedCss,omitempty"`
}

// IsZero reports whether the update carries no fields.
func (u SessionUpdate) IsZero() bool {
	return u.ChatMessages == nil &&
		u.CurrentJSX == nil &&
		u.CurrentCSS == nil &&
		u.GeneratedComponents == nil &&
		u.LastPrompt == nil &&
		u.LastGeneratedJSX == nil &&
		u.LastGeneratedCSS == nil
}

// ApplyTo overwrites the carried fields on a session.
func (u SessionUpdate) ApplyTo(s *Session) {
	if u.ChatMessages != nil {
		s.ChatMessages = *u.ChatMessages
	}
	if u.CurrentJSX != nil {
		s.CurrentJSX = *u.CurrentJSX
	}
	if u.CurrentCSS != nil {
		s.CurrentCSS = *u.CurrentCSS
	}
	if u.GeneratedComponents != nil {
		s.GeneratedComponents = *u.GeneratedComponents
	}
	if u.LastPrompt != nil {
		s.LastPrompt = *u.LastPrompt
	}
	if u.LastGeneratedJSX != nil {
		s.LastGeneratedJSX = *u.LastGeneratedJSX
	}
	if u.LastGeneratedCSS != nil {
		s.LastGeneratedCSS = *u.LastGeneratedCSS
	}
}

// AddTurnInput is the add-message payload: the user/assistant turn pair and
// the artifact the generation produced.
type AddTurnInput struct {
	UserTurn     ChatTurn `json:"userMessage"`
	AITurn       ChatTurn `json:"aiMessage"`
	GeneratedJSX string   `json:"generatedJsx"`
	GeneratedCSS string   `json:"generatedCss"`
	Prompt       string   `json:"prompt"`
}

// SessionRepository defines the persistence interface for sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	List(ctx context.Context) ([]Session, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Session, error)
	Update(ctx context.Context, id primitive.ObjectID, update SessionUpdate) (*Session, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*Session, error)
}
