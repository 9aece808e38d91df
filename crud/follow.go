package crud

import (
	"errors"

	"gorm.io/gorm"

	"ourApp/domain"
	"ourApp/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
type followValidator struct {
	followGorm
}

// followGorm runs the database operations using incoming Follow data.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

var _ domain.FollowService = &FollowService{}

// CreateFollow makes the acting user follow the user with the given
// username. All applicable validation messages are collected before the
// request is rejected.
func (fv *followValidator) CreateFollow(followedUsername string, followerID int) error {
	followed, err := fv.followGorm.userByUsername(followedUsername)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Invalid("You cannot follow a user that does not exist.")
		}
		return err
	}
	follow := &domain.Follow{
		FollowerID: followerID,
		FollowedID: followed.ID,
	}
	err = runFollowValFns(follow,
		fv.followedIsNotFollower,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.create(follow)
}

// DeleteFollow makes the acting user stop following the user with the given
// username.
func (fv *followValidator) DeleteFollow(followedUsername string, followerID int) error {
	followed, err := fv.followGorm.userByUsername(followedUsername)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return errs.Invalid("You cannot stop following a user that does not exist.")
		}
		return err
	}
	follow := &domain.Follow{
		FollowerID: followerID,
		FollowedID: followed.ID,
	}
	if err := runFollowValFns(follow, fv.followExists); err != nil {
		return err
	}
	return fv.followGorm.delete(follow)
}

// IsFollowing reports whether the visitor follows the given user. The
// anonymous visitor follows nobody, so the store is not consulted for them.
func (fv *followValidator) IsFollowing(followedID, visitorID int) (bool, error) {
	if visitorID == domain.AnonymousID {
		return false, nil
	}
	return fv.followGorm.edgeExists(visitorID, followedID)
}

// CountFollowers returns the number of users following the given user.
func (fv *followValidator) CountFollowers(userID int) (int, error) {
	return fv.followGorm.count("followed_id = ?", userID)
}

// CountFollowing returns the number of users the given user follows.
func (fv *followValidator) CountFollowing(userID int) (int, error) {
	return fv.followGorm.count("follower_id = ?", userID)
}

// GetFollowers returns the public profiles of the users following the given
// user, most recent follow first.
func (fv *followValidator) GetFollowers(userID int) ([]domain.Profile, error) {
	return fv.followGorm.profiles("follows.follower_id", "follows.followed_id = ?", userID)
}

// GetFollowing returns the public profiles of the users the given user
// follows, most recent follow first.
func (fv *followValidator) GetFollowing(userID int) ([]domain.Profile, error) {
	return fv.followGorm.profiles("follows.followed_id", "follows.follower_id = ?", userID)
}

// runFollowValFns runs the given validations on the passed in Follow
// object, collecting the messages of every EINVALID failure. Unexpected
// errors stop the run immediately.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	var msgs []string
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			if errs.ErrorCode(err) == errs.EINVALID {
				msgs = append(msgs, errs.ErrorMessages(err)...)
				continue
			}
			return err
		}
	}
	if len(msgs) > 0 {
		return errs.Invalid(msgs...)
	}
	return nil
}

type followValFn func(follow *domain.Follow) error

// followedIsNotFollower makes sure nobody follows themselves.
func (fv *followValidator) followedIsNotFollower(follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// notAlreadyFollowed makes sure the edge does not already exist. The unique
// index over (follower_id, followed_id) backs this pre-check up at the
// storage level.
func (fv *followValidator) notAlreadyFollowed(follow *domain.Follow) error {
	exists, err := fv.followGorm.edgeExists(follow.FollowerID, follow.FollowedID)
	if err != nil {
		return err
	}
	if exists {
		return errs.Errorf(errs.EINVALID, "You are already following this user.")
	}
	return nil
}

// followExists makes sure the edge to be removed actually exists.
func (fv *followValidator) followExists(follow *domain.Follow) error {
	exists, err := fv.followGorm.edgeExists(follow.FollowerID, follow.FollowedID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.Errorf(errs.EINVALID, "You are not following this user.")
	}
	return nil
}

// userByUsername resolves a username to its user record, matching
// case-insensitively.
func (fg *followGorm) userByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := fg.db.First(&user, "LOWER(username) = LOWER(?)", username).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

func (fg *followGorm) edgeExists(followerID, followedID int) (bool, error) {
	var count int64
	err := fg.db.
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (fg *followGorm) count(query string, userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where(query, userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// profiles lists the public profiles on one side of a set of follow edges.
// joinColumn names the follows column holding the listed user's id, and the
// condition selects the edges.
func (fg *followGorm) profiles(joinColumn, condition string, userID int) ([]domain.Profile, error) {
	var users []domain.User
	err := fg.db.
		Model(&domain.User{}).
		Joins("JOIN follows ON "+joinColumn+" = users.id").
		Where(condition, userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, domain.Profile{
			Username: user.Username,
			Avatar:   user.Avatar(),
		})
	}
	return profiles, nil
}

func (fg *followGorm) create(follow *domain.Follow) error {
	return duplicateEdgeInvalid(fg.db.Create(follow).Error)
}

// duplicateEdgeInvalid maps a unique-violation on the follows index to the
// same validation error the pre-check produces. Two concurrent follow
// requests can both pass notAlreadyFollowed; the loser of the insert race
// still gets a validation message rather than an internal error.
func duplicateEdgeInvalid(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Invalid("You are already following this user.")
	}
	return err
}

func (fg *followGorm) delete(follow *domain.Follow) error {
	return fg.db.
		Delete(&domain.Follow{}, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		Error
}
