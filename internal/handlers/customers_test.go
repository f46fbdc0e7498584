package handlers

import (
	"testing"

	"github.com/example/electricity-record/internal/models"
)

func TestEnsureShareTokenIdempotent(t *testing.T) {
	var customer models.Customer

	issued, err := ensureShareToken(&customer)
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	if !issued || customer.ShareToken == nil {
		t.Fatal("expected a token on first issue")
	}
	first := *customer.ShareToken

	issued, err = ensureShareToken(&customer)
	if err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	if issued {
		t.Fatal("token must not be reissued")
	}
	if *customer.ShareToken != first {
		t.Fatalf("existing token changed: %q -> %q", first, *customer.ShareToken)
	}
}
