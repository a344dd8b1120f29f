package auth

import (
	"strings"
	"testing"
)

// Cost 4 is the bcrypt minimum — roughly 250x faster than the production
// cost of 12, which matters when a test hashes a dozen passwords.
func newTestPasswordService() *PasswordService {
	return &PasswordService{cost: 4}
}

// =========================================================================
// HASH TESTS
// =========================================================================

func TestHash_ProducesBcryptHash(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("Hash() returned empty string")
	}
	// bcrypt output starts with $2a$ (or $2b$) followed by the cost
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, doesn't look like a bcrypt hash", hash)
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// The random salt means two hashes of the same password must differ —
	// this is what defeats precomputed rainbow tables.
	hash1, _ := ps.Hash("samepassword")
	hash2, _ := ps.Hash("samepassword")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt missing?)")
	}
}

func TestHash_EmptyPasswordIsHashable(t *testing.T) {
	ps := newTestPasswordService()

	// The hasher accepts any input, empty included. Minimum-length policy
	// lives in the auth service, not here.
	hash, err := ps.Hash("")
	if err != nil {
		t.Fatalf("Hash(\"\") error = %v", err)
	}
	if err := ps.Verify(hash, ""); err != nil {
		t.Errorf("Verify() of empty password against its own hash failed: %v", err)
	}
}

func TestHash_RejectsOver72Bytes(t *testing.T) {
	ps := newTestPasswordService()

	long := strings.Repeat("x", 73)
	if _, err := ps.Hash(long); err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}

	// Exactly 72 is still fine
	if _, err := ps.Hash(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("Hash() of 72-byte password error = %v", err)
	}
}

// =========================================================================
// VERIFY TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("longenough1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "longenough1"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("longenough1")

	if err := ps.Verify(hash, "short"); err == nil {
		t.Error("Verify() should fail for a wrong password")
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	if err := ps.Verify("not-a-bcrypt-hash", "whatever"); err == nil {
		t.Error("Verify() should fail for a malformed stored hash")
	}
}
