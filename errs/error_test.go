package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"invalid", Errorf(EINVALID, "bad input"), EINVALID},
		{"not found", Errorf(ENOTFOUND, "nope"), ENOTFOUND},
		{"not owner", Errorf(ENOTOWNER, "hands off"), ENOTOWNER},
		{"wrapped", fmt.Errorf("context: %w", Errorf(ENOTFOUND, "nope")), ENOTFOUND},
		{"plain error is internal", errors.New("pq: connection refused"), EINTERNAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Run("accumulated validation messages survive", func(t *testing.T) {
		err := Invalid("You must provide a title.", "You must provide some content for the post.")
		assert.Equal(t, []string{
			"You must provide a title.",
			"You must provide some content for the post.",
		}, ErrorMessages(err))
	})

	t.Run("internal detail is hidden", func(t *testing.T) {
		err := Errorf(EINTERNAL, "dial tcp 10.0.0.5:5432: i/o timeout")
		assert.Equal(t, []string{GenericMessage}, ErrorMessages(err))
	})

	t.Run("plain errors get the generic message", func(t *testing.T) {
		assert.Equal(t, []string{GenericMessage}, ErrorMessages(errors.New("boom")))
	})

	t.Run("nil has no messages", func(t *testing.T) {
		assert.Nil(t, ErrorMessages(nil))
	})
}

func TestErrorString(t *testing.T) {
	err := Invalid("first", "second")
	assert.Equal(t, "invalid: first; second", err.Error())
}
