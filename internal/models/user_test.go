package models

import (
	"testing"
	"time"
)

func TestUserIsLocked(t *testing.T) {
	var user User
	if user.IsLocked() {
		t.Fatalf("expected unlocked without lock timestamp")
	}

	future := time.Now().Add(time.Hour)
	user.LockUntil = &future
	if !user.IsLocked() {
		t.Fatalf("expected locked while lock timestamp is in the future")
	}

	past := time.Now().Add(-time.Hour)
	user.LockUntil = &past
	if user.IsLocked() {
		t.Fatalf("expected unlocked after lock expiry")
	}
}
