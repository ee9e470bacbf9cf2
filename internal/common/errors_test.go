package common

import (
	"errors"
	"testing"
)

func TestTokenErrors_WrapInvalidToken(t *testing.T) {
	for _, err := range []error{ErrInvalidSignature, ErrTokenExpired, ErrMalformedClaims} {
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%v must wrap ErrInvalidToken", err)
		}
	}
	if errors.Is(ErrTokenExpired, ErrInvalidSignature) {
		t.Fatal("expired must not match signature mismatch")
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	a, err := GenerateRandByteArray(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected length 32, got %d", len(a))
	}

	b, err := GenerateRandByteArray(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(a) == string(b) {
		t.Logf("warning: two GenerateRandByteArray(32) results are identical; extremely unlikely")
	}

	z, err := GenerateRandByteArray(0)
	if err != nil || len(z) != 0 {
		t.Fatalf("expected empty slice for size 0, got %v, %v", z, err)
	}
}
