package mobile

import (
	"testing"
	"time"
)

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("k")
	tok, err := s.Issue("shell-1")
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Parse(tok)
	if err != nil || id != "shell-1" {
		t.Fatalf("expected shell-1, got %q %v", id, err)
	}

	if _, err := NewSigner("other").Parse(tok); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestSignerRejectsExpired(t *testing.T) {
	s := NewSigner("k")
	issued := time.Now()
	s.now = func() time.Time { return issued }
	tok, _ := s.Issue("shell-1")

	s.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	if _, err := s.Parse(tok); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestSignerRejectsEmptyShell(t *testing.T) {
	s := NewSigner("k")
	tok, _ := s.Issue("")
	if _, err := s.Parse(tok); err != errInvalidClaims {
		t.Fatalf("expected errInvalidClaims, got %v", err)
	}
}
