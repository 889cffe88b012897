package runtime

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxTextSize is 4KB per free-text answer.
const DefaultMaxTextSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer cleans free-text questionnaire answers so they are safe to store and display.
type Sanitizer struct {
	maxSize int
	policy  *bluemonday.Policy
}

// NewSanitizer creates a sanitizer rejecting answers above maxSize bytes.
// A non-positive maxSize falls back to DefaultMaxTextSize.
func NewSanitizer(maxSize int) *Sanitizer {
	if maxSize <= 0 {
		maxSize = DefaultMaxTextSize
	}
	return &Sanitizer{
		maxSize: maxSize,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Text enforces the size limit, validates UTF-8, strips control characters,
// trims surrounding whitespace and removes markup (escaping what is left).
func (s *Sanitizer) Text(input string) (string, error) {
	// Reject rather than truncate so what is stored is what was typed.
	if len(input) > s.maxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.maxSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}

	return s.policy.Sanitize(strings.TrimSpace(b.String())), nil
}

// Questionnaire returns a cleaned copy of q, validated after cleaning.
func (s *Sanitizer) Questionnaire(q domain.Questionnaire) (domain.Questionnaire, error) {
	unclear, err := s.Text(q.UnclearStep)
	if err != nil {
		return domain.Questionnaire{}, fmt.Errorf("%w: unclear step: %w", domain.ErrInvalidQuestionnaire, err)
	}
	missing, err := s.Text(q.ExpectedMissing)
	if err != nil {
		return domain.Questionnaire{}, fmt.Errorf("%w: expected missing: %w", domain.ErrInvalidQuestionnaire, err)
	}

	clean := domain.Questionnaire{
		Difficulty:      q.Difficulty,
		UnclearStep:     unclear,
		ExpectedMissing: missing,
	}
	if err := clean.Validate(); err != nil {
		return domain.Questionnaire{}, err
	}
	return clean, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
