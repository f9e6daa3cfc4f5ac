package auth

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}

	token, expiresAt, err := j.Sign(Claims{UserID: 42, Username: "alice"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if token == "" {
		t.Fatal("Sign returned empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt %v is not in the future", expiresAt)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("Username = %q, want alice", claims.Username)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	j := JWT{Secret: []byte("secret-a"), TokenTTL: time.Hour}
	token, _, err := j.Sign(Claims{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	other := JWT{Secret: []byte("secret-b"), TokenTTL: time.Hour}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("Verify accepted token signed with a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: -time.Minute}
	token, _, err := j.Sign(Claims{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := j.Verify(token); err == nil {
		t.Fatal("Verify accepted expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	j := JWT{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	if _, err := j.Verify("not.a.jwt"); err == nil {
		t.Fatal("Verify accepted garbage token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatal("CheckPassword rejected correct password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatal("CheckPassword accepted wrong password")
	}
}
