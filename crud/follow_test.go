package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"ourApp/domain"
	"ourApp/errs"
)

func TestIsFollowingAnonymous(t *testing.T) {
	fs := NewFollowService(nil)

	// The anonymous visitor follows nobody; the store must not even be
	// consulted, which is why a nil connection works here.
	following, err := fs.IsFollowing(42, domain.AnonymousID)
	assert.NoError(t, err)
	assert.False(t, following)
}

func TestDuplicateEdgeInvalid(t *testing.T) {
	// A follow insert that loses a race against an identical insert hits
	// the unique index instead of the validator pre-check. The resulting
	// duplicate-key error must surface as the same validation message.
	err := duplicateEdgeInvalid(gorm.ErrDuplicatedKey)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	assert.Equal(t, []string{"You are already following this user."}, errs.ErrorMessages(err))

	assert.NoError(t, duplicateEdgeInvalid(nil))
	assert.Equal(t, assert.AnError, duplicateEdgeInvalid(assert.AnError))
}
