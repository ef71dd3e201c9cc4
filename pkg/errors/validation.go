package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInput is the largest node list the form server accepts.
const DefaultMaxInput = 64 << 10

// ValidateInput checks a submitted node list before it reaches the parser.
// The parser itself accepts anything; these rules only protect the outer
// surfaces from oversized or binary submissions.
//
//   - At most limit bytes (DefaultMaxInput when limit is zero or negative)
//   - Valid UTF-8
//   - No null bytes
func ValidateInput(text string, limit int) error {
	if limit <= 0 {
		limit = DefaultMaxInput
	}
	if len(text) > limit {
		return New(ErrCodeInputTooLarge, "node list too large (%d bytes, max %d)", len(text), limit)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "node list is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "node list contains a null byte")
	}
	return nil
}

// ValidatePath validates an output or layout file path given on the command
// line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
