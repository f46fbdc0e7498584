package utils

import (
	"strings"
	"testing"
)

func TestAllowedImageFile(t *testing.T) {
	for _, v := range []string{"bill.jpg", "shot.PNG", "proof.webp", "scan.jpeg"} {
		if !AllowedImageFile(v) {
			t.Fatalf("expected %q allowed", v)
		}
	}
	for _, v := range []string{"notes.txt", "payload.exe", "bill", "archive.zip"} {
		if AllowedImageFile(v) {
			t.Fatalf("expected %q rejected", v)
		}
	}
}

func TestRandomFilename(t *testing.T) {
	name, err := RandomFilename("Bill Photo.JPG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("expected lower-cased extension kept, got %q", name)
	}
	if strings.Contains(name, " ") {
		t.Fatalf("expected no spaces in generated name, got %q", name)
	}

	other, err := RandomFilename("Bill Photo.JPG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name == other {
		t.Fatalf("expected distinct generated names")
	}
}
