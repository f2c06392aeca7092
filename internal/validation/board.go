// Package validation checks user-supplied board input.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 32
	PasswordMinLength = 6
	PasswordMaxBytes  = 72
	TitleMaxLength    = 255
)

var strictPolicy = bluemonday.StrictPolicy()

// ValidateUsername checks length and rejects embedded markup.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return fmt.Errorf("username must be %d-%d characters", UsernameMinLength, UsernameMaxLength)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("username cannot start or end with whitespace")
	}
	if strictPolicy.Sanitize(username) != username {
		return fmt.Errorf("username cannot contain markup")
	}
	return nil
}

// ValidatePassword bounds the length in bytes as well, since bcrypt hashes at
// most 72 bytes.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}
	if len(password) > PasswordMaxBytes {
		return fmt.Errorf("password must be at most %d bytes", PasswordMaxBytes)
	}
	return nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return fmt.Errorf("title must be at most %d characters", TitleMaxLength)
	}
	return nil
}

func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ValidateID checks that id is a UUID.
func ValidateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s must be a valid UUID", field)
	}
	return nil
}
