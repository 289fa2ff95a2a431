package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	e, err := NewEmail("  Agent@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", e.String())
	assert.Equal(t, "example.com", e.Domain())

	for _, bad := range []string{"", "agent", "agent@", "@example.com", "a b@example.com", "Bob <bob@example.com>", "bob@localhost", "bob@example."} {
		_, err := NewEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123", 8))
	assert.Error(t, ValidatePassword("short1", 8))
	assert.Error(t, ValidatePassword("lettersonly", 8))
	assert.Error(t, ValidatePassword("12345678", 8))
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	assert.NoError(t, ValidatePassword(pw, 12))
}
