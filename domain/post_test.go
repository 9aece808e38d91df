package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	tests := []struct {
		name     string
		authorID int
		actingID int
		expected bool
	}{
		{"owner", 7, 7, true},
		{"different user", 7, 8, false},
		{"anonymous visitor never owns", 7, AnonymousID, false},
		{"anonymous resource vs anonymous visitor", AnonymousID, AnonymousID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOwner(tt.authorID, tt.actingID))
		})
	}
}
