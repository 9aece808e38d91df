package domain

import "time"

// Follow represents a self-referential many-to-many relationship between
// two users. A Follow is created when one user decides to follow another
// user. The FollowerID is the ID of the user that follows, and the
// FollowedID is the ID of the user that is being followed. The unique index
// over the pair keeps duplicate edges out at the storage level, not just in
// the pre-checks.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follows_follower_followed"`
	Follower   User      `json:"follower"`
	FollowedID int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follows_follower_followed"`
	Followed   User      `json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with Follows.
// Create and Delete address the followed user by username, the way the
// routes do.
type FollowService interface {
	CreateFollow(followedUsername string, followerID int) error
	DeleteFollow(followedUsername string, followerID int) error
	IsFollowing(followedID, visitorID int) (bool, error)
	CountFollowers(userID int) (int, error)
	CountFollowing(userID int) (int, error)
	GetFollowers(userID int) ([]Profile, error)
	GetFollowing(userID int) ([]Profile, error)
}
