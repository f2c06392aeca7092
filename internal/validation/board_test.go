package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "ada", false},
		{"Max Length", strings.Repeat("a", 32), false},
		{"Unicode", "åsa", false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 33), true},
		{"Leading Space", " ada", true},
		{"Markup", "<b>ada</b>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidatePassword("secret"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 72)))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 73)))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 100)))
	// 25 runes but 75 bytes
	assert.Error(t, ValidatePassword(strings.Repeat("€", 25)))
	assert.NoError(t, ValidatePassword(strings.Repeat("€", 24)))
}

func TestValidateTitleAndContent(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTitle("Hello"))
	assert.NoError(t, ValidateTitle(strings.Repeat("t", 255)))
	assert.Error(t, ValidateTitle(""))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("t", 256)))

	assert.NoError(t, ValidateContent("x"))
	assert.Error(t, ValidateContent(""))
	assert.Error(t, ValidateContent("\n\t"))
}

func TestValidateID(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateID("parentId", uuid.NewString()))
	err := ValidateID("parentId", "42")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "parentId")
	}
}
