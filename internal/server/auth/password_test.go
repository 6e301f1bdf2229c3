package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Fatal("invalid hash must never match")
	}
}

func TestBurnPasswordCheck_DoesNotPanic(t *testing.T) {
	t.Parallel()

	BurnPasswordCheck("whatever")
	BurnPasswordCheck("")
}
