package validator

import (
	"errors"
	"testing"

	"github.com/yi-nology/itam/pkg/config"
)

func TestValidateKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"laptop", true},
		{"serial_no", true},
		{"os-version-2", true},
		{"  monitor ", true},
		{"", false},
		{"Laptop", false},
		{"serial no", false},
		{"한글", false},
	}
	for _, tc := range cases {
		if got := ValidateKey(tc.key); got != tc.want {
			t.Errorf("ValidateKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	key, ok := SanitizeKey("  serial_no ")
	if !ok || key != "serial_no" {
		t.Fatalf("unexpected result %q %v", key, ok)
	}
	if _, ok := SanitizeKey("Bad Key"); ok {
		t.Fatalf("expected invalid key")
	}
}

func TestSanitizeFieldKey(t *testing.T) {
	for _, good := range []string{"expiresAt", "serial_no", " version "} {
		if _, ok := SanitizeFieldKey(good); !ok {
			t.Errorf("expected %q to be accepted", good)
		}
	}
	for _, bad := range []string{"", "1st", "has space", "dash-key", "_lead"} {
		if _, ok := SanitizeFieldKey(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("kim@example.com") {
		t.Fatalf("expected valid email")
	}
	for _, bad := range []string{"", "kim", "kim@", "kim@example", "a b@example.com"} {
		if ValidateEmail(bad) {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestUploadValidate(t *testing.T) {
	u := NewUpload(config.UploadConfig{
		MaxSize:      16,
		AllowedTypes: []string{"text/csv", "text/plain"},
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := u.Validate(nil, "text/csv"); !errors.Is(err, ErrFileEmpty) {
			t.Fatalf("expected ErrFileEmpty, got %v", err)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		if _, err := u.Validate(make([]byte, 17), "text/csv"); !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("DeclaredTypeWithParams", func(t *testing.T) {
		ct, err := u.Validate([]byte("title\nA"), "text/csv; charset=utf-8")
		if err != nil || ct != "text/csv" {
			t.Fatalf("unexpected result %q %v", ct, err)
		}
	})

	t.Run("SniffedFallback", func(t *testing.T) {
		ct, err := u.Validate([]byte("hello"), "")
		if err != nil || ct != "text/plain" {
			t.Fatalf("unexpected result %q %v", ct, err)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		if _, err := u.Validate([]byte("%PDF-1.4"), "application/pdf"); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
	})
}
