package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatar(t *testing.T) {
	expected := "https://gravatar.com/avatar/55502f40dc8b7c769880b10874abc9d0?s=128"

	assert.Equal(t, expected, Avatar("test@example.com"))

	// Gravatar hashes the normalized address, so case and padding must not
	// change the avatar.
	assert.Equal(t, expected, Avatar("  Test@Example.COM "))

	user := User{Email: "test@example.com"}
	assert.Equal(t, expected, user.Avatar())
}
