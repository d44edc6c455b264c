package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	tok, err := svc.IssueToken(42)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	id, err := svc.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id = %d, want 42", id)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewService("secret-a", time.Hour).IssueToken(1)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := NewService("secret-b", time.Hour).ParseToken(tok); err == nil {
		t.Fatalf("expected error for token signed with a different secret")
	}
}

func TestParse_Expired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)
	tok, err := svc.IssueToken(1)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := svc.ParseToken(tok); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParse_Garbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
