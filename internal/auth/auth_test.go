package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestAdmin(t *testing.T) *Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}
	return New(string(hash), "test-secret")
}

func TestVerifyPassword(t *testing.T) {
	a := newTestAdmin(t)

	if !a.VerifyPassword("hunter2") {
		t.Error("correct password rejected")
	}
	if a.VerifyPassword("hunter3") {
		t.Error("wrong password accepted")
	}
}

func TestDisabledAdminRejectsEverything(t *testing.T) {
	a := New("", "")
	if a.Enabled() {
		t.Error("empty config should disable admin")
	}
	if a.VerifyPassword("anything") {
		t.Error("disabled admin should reject all passwords")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAdmin(t)

	token, err := a.IssueToken()
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := a.VerifyToken(token); err != nil {
		t.Errorf("verify own token: %v", err)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a := newTestAdmin(t)
	other := New("x", "different-secret")

	token, err := a.IssueToken()
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := other.VerifyToken(token); err == nil {
		t.Error("token verified under a different secret")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	a := newTestAdmin(t)
	if err := a.VerifyToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}
}
