package runtime

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizer_Text(t *testing.T) {
	s := NewSanitizer(16)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Plain", "hello", "hello", nil},
		{"Trimmed", "  hi \n", "hi", nil},
		{"Keeps Newlines", "a\nb", "a\nb", nil},
		{"Strips Controls", "a\x00b\x07c", "abc", nil},
		{"Strips Tags", "<i>x</i>", "x", nil},
		{"Too Large", strings.Repeat("a", 17), "", ErrInputTooLarge},
		{"Invalid UTF8", "\xff\xfe", "", ErrInvalidUTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Text(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewSanitizer_DefaultLimit(t *testing.T) {
	s := NewSanitizer(0)
	if s.maxSize != DefaultMaxTextSize {
		t.Errorf("maxSize = %d, want %d", s.maxSize, DefaultMaxTextSize)
	}
}
