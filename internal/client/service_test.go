package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": status >= 200 && status < 300,
		"data":    data,
	})
}

func TestService_GenerateAndStore_NewSession(t *testing.T) {
	var capturedDraft domain.SessionDraft

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/llm/generate-component", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]string{
			"jsx": "function Card() { return <div />; }\nrender(<Card />);",
			"css": "",
		})
	})
	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedDraft))

		session := domain.Session{
			ID:              primitive.NewObjectID(),
			Prompt:          capturedDraft.Prompt,
			Description:     capturedDraft.Description,
			ComponentsCount: capturedDraft.ComponentsCount,
			ChatMessages:    capturedDraft.ChatMessages,
			CurrentJSX:      capturedDraft.CurrentJSX,
		}
		writeEnvelope(w, http.StatusCreated, session)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewService(server.URL)

	session, err := svc.GenerateAndStore(context.Background(), "", "Card component")
	require.NoError(t, err)

	assert.Equal(t, "Card component", capturedDraft.Prompt)
	assert.Equal(t, "Component generated from: Card component", capturedDraft.Description)
	assert.Equal(t, 1, capturedDraft.ComponentsCount)
	require.Len(t, capturedDraft.ChatMessages, 2)
	assert.True(t, capturedDraft.ChatMessages[0].IsUser())
	assert.False(t, capturedDraft.ChatMessages[1].IsUser())
	assert.Contains(t, capturedDraft.CurrentJSX, "render(")
	assert.Equal(t, []string{capturedDraft.CurrentJSX}, capturedDraft.GeneratedComponents)

	assert.Contains(t, session.CurrentJSX, "render(")
	assert.Len(t, session.ChatMessages, 2)
}

func TestService_GenerateAndStore_ExistingSession(t *testing.T) {
	id := primitive.NewObjectID()
	var capturedInput domain.AddTurnInput

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/llm/generate-component", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]string{
			"jsx": "render(<Button />);",
			"css": "",
		})
	})
	mux.HandleFunc("POST /api/sessions/"+id.Hex()+"/add-message", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedInput))
		writeEnvelope(w, http.StatusOK, domain.Session{ID: id, CurrentJSX: capturedInput.GeneratedJSX})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewService(server.URL)

	session, err := svc.GenerateAndStore(context.Background(), id.Hex(), "make a button")
	require.NoError(t, err)

	assert.Equal(t, "make a button", capturedInput.Prompt)
	assert.Equal(t, "render(<Button />);", capturedInput.GeneratedJSX)
	assert.True(t, capturedInput.UserTurn.IsUser())
	assert.False(t, capturedInput.AITurn.IsUser())
	assert.Equal(t, "render(<Button />);", session.CurrentJSX)
}

func TestService_GenerateAndStore_GenerationFails(t *testing.T) {
	sessionsHit := false

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/llm/generate-component", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "generated code must end with a render(...) call and must not contain export statements",
		})
	})
	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		sessionsHit = true
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewService(server.URL)

	_, err := svc.GenerateAndStore(context.Background(), "", "Card component")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render(")
	assert.False(t, sessionsHit, "a failed generation must not create a session")
}

func TestService_GetSession_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Session not found"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewService(server.URL)

	_, err := svc.GetSession(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	svc := NewService(server.URL)

	_, err := svc.ListSessions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}

func TestService_LoginAdoptsCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "signed-jwt", HttpOnly: true})
		writeEnvelope(w, http.StatusOK, map[string]string{"email": "user@example.com"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewService(server.URL)
	require.NoError(t, svc.Login(context.Background(), domain.UserLogin{
		Email:    "user@example.com",
		Password: "password123",
	}))

	assert.Equal(t, "signed-jwt", svc.AuthToken())
}
