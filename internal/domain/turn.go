package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// TurnBody is the payload of a chat turn. Exactly one of the two concrete
// bodies is present: UserPrompt for user-authored turns, AssistantReply for
// assistant turns.
type TurnBody interface {
	// Text returns the display text of the turn.
	Text() string

	isTurnBody()
}

// UserPrompt is the body of a user-authored turn. When the turn triggered a
// generation it also carries the prompt and the produced artifact.
type UserPrompt struct {
	Message      string
	Prompt       string
	GeneratedJSX string
	GeneratedCSS string
}

func (UserPrompt) isTurnBody() {}

func (b UserPrompt) Text() string { return b.Message }

// AssistantReply is the body of an assistant turn.
type AssistantReply struct {
	Message      string
	ResponseText string
}

func (AssistantReply) isTurnBody() {}

func (b AssistantReply) Text() string { return b.Message }

// ChatTurn is one message in a session transcript. On the wire and in
// storage it is a flat document discriminated by isUser; in memory the body
// is a tagged union.
type ChatTurn struct {
	ID   string
	Time time.Time
	Body TurnBody
}

// NewUserTurn builds a user turn for a generation request.
func NewUserTurn(prompt, generatedJSX, generatedCSS string) ChatTurn {
	return ChatTurn{
		ID:   uuid.NewString(),
		Time: time.Now().UTC(),
		Body: UserPrompt{
			Message:      prompt,
			Prompt:       prompt,
			GeneratedJSX: generatedJSX,
			GeneratedCSS: generatedCSS,
		},
	}
}

// NewAssistantTurn builds an assistant turn whose responseText echoes the
// display text.
func NewAssistantTurn(text string) ChatTurn {
	return ChatTurn{
		ID:   uuid.NewString(),
		Time: time.Now().UTC(),
		Body: AssistantReply{Message: text, ResponseText: text},
	}
}

// IsUser reports whether the turn is user-authored.
func (t ChatTurn) IsUser() bool {
	_, ok := t.Body.(UserPrompt)
	return ok
}

// Text returns the display text of the turn, or "" for an empty body.
func (t ChatTurn) Text() string {
	if t.Body == nil {
		return ""
	}
	return t.Body.Text()
}

// turnOut is the flat wire shape shared by JSON and BSON encodings.
type turnOut struct {
	ID           string    `json:"id" bson:"id"`
	IsUser       bool      `json:"isUser" bson:"isUser"`
	Text         string    `json:"text" bson:"text"`
	Time         time.Time `json:"time" bson:"time"`
	Prompt       string    `json:"prompt,omitempty" bson:"prompt,omitempty"`
	GeneratedJSX string    `json:"generatedJsx,omitempty" bson:"generatedJsx,omitempty"`
	GeneratedCSS string    `json:"generatedCss,omitempty" bson:"generatedCss,omitempty"`
	ResponseText string    `json:"responseText,omitempty" bson:"responseText,omitempty"`
}

func (t ChatTurn) flatten() turnOut {
	out := turnOut{ID: t.ID, Time: t.Time.UTC(), Text: t.Text()}
	switch b := t.Body.(type) {
	case UserPrompt:
		out.IsUser = true
		out.Prompt = b.Prompt
		out.GeneratedJSX = b.GeneratedJSX
		out.GeneratedCSS = b.GeneratedCSS
	case AssistantReply:
		out.ResponseText = b.ResponseText
	}
	return out
}

func (t *ChatTurn) adopt(in turnOut) {
	t.ID = in.ID
	t.Time = in.Time
	if in.IsUser {
		t.Body = UserPrompt{
			Message:      in.Text,
			Prompt:       in.Prompt,
			GeneratedJSX: in.GeneratedJSX,
			GeneratedCSS: in.GeneratedCSS,
		}
		return
	}
	t.Body = AssistantReply{Message: in.Text, ResponseText: in.ResponseText}
}

// MarshalJSON encodes the turn in the flat wire shape with an RFC 3339 time.
func (t ChatTurn) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.flatten())
}

// turnIn tolerates the time representations found in stored documents:
// RFC 3339 strings and raw epoch milliseconds.
type turnIn struct {
	ID           string          `json:"id"`
	IsUser       bool            `json:"isUser"`
	Text         string          `json:"text"`
	Time         json.RawMessage `json:"time"`
	Prompt       string          `json:"prompt"`
	GeneratedJSX string          `json:"generatedJsx"`
	GeneratedCSS string          `json:"generatedCss"`
	ResponseText string          `json:"responseText"`
}

// UnmarshalJSON decodes the flat wire shape, normalizing the time field to a
// canonical instant.
func (t *ChatTurn) UnmarshalJSON(data []byte) error {
	var in turnIn
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	ts, err := parseWireTime(in.Time)
	if err != nil {
		return fmt.Errorf("chat turn %q: %w", in.ID, err)
	}

	t.adopt(turnOut{
		ID:           in.ID,
		IsUser:       in.IsUser,
		Text:         in.Text,
		Time:         ts,
		Prompt:       in.Prompt,
		GeneratedJSX: in.GeneratedJSX,
		GeneratedCSS: in.GeneratedCSS,
		ResponseText: in.ResponseText,
	})
	return nil
}

// MarshalBSON stores the turn as the flat document shape used by the
// original collection.
func (t ChatTurn) MarshalBSON() ([]byte, error) {
	return bson.Marshal(t.flatten())
}

// UnmarshalBSON restores the union from the flat document shape.
func (t *ChatTurn) UnmarshalBSON(data []byte) error {
	var in turnOut
	if err := bson.Unmarshal(data, &in); err != nil {
		return err
	}
	t.adopt(in)
	return nil
}

// parseWireTime accepts an RFC 3339 string, an epoch-milliseconds number, or
// an absent field (zero instant).
func parseWireTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized time %q", s)
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time value %s", raw)
}
