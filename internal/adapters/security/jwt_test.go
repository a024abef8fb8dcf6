package security

import (
	"context"
	"testing"
	"time"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

func TestJWTVerifierRoundTrip(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	raw, err := v.Mint("acct-alice", time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	subject, err := v.VerifyToken(context.Background(), raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "acct-alice" {
		t.Fatalf("expected subject acct-alice, got %q", subject)
	}
}

func TestJWTVerifierRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTVerifier("issuer-secret")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	verifier, err := NewJWTVerifier("other-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	raw, err := issuer.Mint("acct-alice", time.Minute)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := verifier.VerifyToken(context.Background(), raw); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTVerifierRejectsExpiredToken(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	raw, err := v.Mint("acct-alice", -time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := v.VerifyToken(context.Background(), raw); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTVerifierRejectsGarbage(t *testing.T) {
	v, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := v.VerifyToken(context.Background(), "not-a-token"); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	if _, err := NewJWTVerifier(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestStaticVerifier(t *testing.T) {
	subject, err := StaticVerifier{}.VerifyToken(context.Background(), "acct-alice")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "acct-alice" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if _, err := (StaticVerifier{}).VerifyToken(context.Background(), "  "); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
