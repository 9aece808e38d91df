package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ourApp/errs"
)

func TestStripMarkup(t *testing.T) {
	policy := newStrictPolicy()

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain text untouched", "Hello World", "Hello World"},
		{"whitespace trimmed", "  Hello World  ", "Hello World"},
		{"tags stripped, text kept", "Hello <b>World</b>", "Hello World"},
		{"nested tags stripped", "<p>Hello <em>there</em></p>", "Hello there"},
		{"script body dropped entirely", "<script>alert('x')</script>Hi", "Hi"},
		{"attributes go with their tags", `<a href="https://evil.example">click</a>`, "click"},
		{"only markup leaves nothing", "<p></p>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := stripMarkup(policy, tt.in)
			assert.Equal(t, tt.expected, out)
			assert.NotContains(t, out, "<")
			assert.NotContains(t, out, ">")
		})
	}
}

func TestValidatePostInput(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		err := validatePostInput(postInput("Hello", "World"))
		assert.NoError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		err := validatePostInput(postInput("", "World"))
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		assert.Equal(t, []string{"You must provide a title."}, errs.ErrorMessages(err))
	})

	t.Run("missing body", func(t *testing.T) {
		err := validatePostInput(postInput("Hello", ""))
		assert.Equal(t, []string{"You must provide some content for the post."}, errs.ErrorMessages(err))
	})

	t.Run("both missing accumulates both messages", func(t *testing.T) {
		err := validatePostInput(postInput("", ""))
		assert.Equal(t, []string{
			"You must provide a title.",
			"You must provide some content for the post.",
		}, errs.ErrorMessages(err))
	})
}
