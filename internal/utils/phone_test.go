package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 (234) 567-8900": "+12345678900",
		"12 34.56 78":       "12345678",
		"+99 888-777":       "+99888777",
		"12+34":             "1234",
		"  +1234  ":         "+1234",
	}
	for input, want := range cases {
		if got := NormalizePhone(input); got != want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPhonesMatchIgnoresFormatting(t *testing.T) {
	// Stored phone 12345678900 must match the formatted international form.
	if !PhonesMatch("+1 (234) 567-8900", "12345678900") {
		t.Fatalf("expected formatted phone to match stored digits")
	}
	if !PhonesMatch("12345678900", "+12345678900") {
		t.Fatalf("expected bare digits to match + form")
	}
	if !PhonesMatch("+1-234-567-8900", "+1.234.567.8900") {
		t.Fatalf("expected equivalent formatted numbers to match")
	}
	if !PhonesMatch("987654321", "987 654 321") {
		t.Fatalf("expected spaced digits to match")
	}
}

func TestPhonesMatchRejectsDifferentNumbers(t *testing.T) {
	if PhonesMatch("12345678900", "12345678901") {
		t.Fatalf("expected different numbers to mismatch")
	}
	if PhonesMatch("+12345678900", "2345678900") {
		t.Fatalf("expected differing digit sequences to mismatch")
	}
}
