package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mcg-platform/componentgen/internal/api/handler"
	"github.com/mcg-platform/componentgen/internal/security"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["success"] != true {
		t.Error("expected success to be true")
	}

	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data to be a map")
	}

	if data["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", data["status"])
	}
}

func TestSessionHandler_Create_RequiresDatabase(t *testing.T) {
	t.Skip("Requires database connection - run as integration test")
}

func TestAuthFlow(t *testing.T) {
	t.Skip("Requires database connection - run as integration test")

	// Integration test flow:
	// 1. Sign up a new user, verify the token cookie is set
	// 2. Log in with the same credentials
	// 3. Use the cookie to create a session and append a turn
	// 4. Log out and verify protected routes return 401
}

// BenchmarkJWTGeneration benchmarks token generation
func BenchmarkJWTGeneration(b *testing.B) {
	manager := security.NewJWTManager("benchmark-secret-key-32-chars!!", 7*24*time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.GenerateToken("64f1b2c3d4e5f6a7b8c9d0e1", "test@example.com")
	}
}
