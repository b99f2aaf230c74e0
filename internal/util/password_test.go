package util

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("s3cret-pw", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong-pw", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("whatever", "not-a-bcrypt-digest") {
		t.Error("malformed digest must verify as false, not panic or succeed")
	}
	if CheckPassword("whatever", "") {
		t.Error("empty digest must verify as false")
	}
}
