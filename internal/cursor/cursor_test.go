package cursor_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mkXultra/graphiti-mcp-server/internal/cursor"
)

func TestCodec_IssueVerify_RoundTrips(t *testing.T) {
	c := cursor.NewCodec([]byte("test-signing-secret"))

	issued, err := c.Issue("sid1", "qh1", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	payload, err := c.Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if payload.SID != "sid1" || payload.QH != "qh1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCodec_Verify_ExpiredToken(t *testing.T) {
	c := cursor.NewCodec([]byte("test-signing-secret"))

	issued, err := c.Issue("sid1", "qh1", -time.Second)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = c.Verify(issued.Token)
	if err != cursor.ErrExpired {
		t.Fatalf("Verify() error = %v, want ErrExpired", err)
	}
}

func TestCodec_Verify_MalformedToken(t *testing.T) {
	c := cursor.NewCodec([]byte("test-signing-secret"))

	cases := []string{
		"",
		"no-dot-here",
		"a.",
		".b",
		"a.b.c",
	}

	for _, tok := range cases {
		if _, err := c.Verify(tok); err != cursor.ErrInvalid {
			t.Errorf("Verify(%q) error = %v, want ErrInvalid", tok, err)
		}
	}
}

func TestCodec_Verify_TamperedSignatureRejected(t *testing.T) {
	c := cursor.NewCodec([]byte("test-signing-secret"))

	issued, err := c.Issue("sid1", "qh1", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.SplitN(issued.Token, ".", 2)
	tampered := parts[0] + "." + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	if _, err := c.Verify(tampered); err != cursor.ErrInvalid {
		t.Fatalf("Verify() error = %v, want ErrInvalid", err)
	}
}

func TestCodec_Verify_WrongSecretRejected(t *testing.T) {
	issuer := cursor.NewCodec([]byte("secret-one"))
	verifier := cursor.NewCodec([]byte("secret-two"))

	issued, err := issuer.Issue("sid1", "qh1", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(issued.Token); err != cursor.ErrInvalid {
		t.Fatalf("Verify() error = %v, want ErrInvalid", err)
	}
}

func TestCodec_Verify_PayloadMismatchDetected(t *testing.T) {
	c := cursor.NewCodec([]byte("test-signing-secret"))

	issued, err := c.Issue("sid1", "qh-original", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	payload, err := c.Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if payload.QH != "qh-original" {
		t.Fatalf("expected caller to compare payload.QH against the current query hash, got %q", payload.QH)
	}
}
