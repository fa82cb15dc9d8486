package security_test

import (
	"testing"

	"github.com/mcg-platform/componentgen/internal/security"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Error("hash equals plaintext")
	}

	if !security.CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}

	if security.CheckPassword(hash, "wrong password") {
		t.Error("expected mismatched password to fail")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if security.CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Error("expected invalid hash to fail verification")
	}
}
