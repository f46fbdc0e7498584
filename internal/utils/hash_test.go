package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Str0ng@pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Str0ng@pass" {
		t.Fatalf("expected password to be hashed")
	}
	if !CheckPassword(hash, "Str0ng@pass") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("expected wrong password to fail")
	}
}
