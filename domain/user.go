package domain

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"notNull"`
	Email    string `json:"email" gorm:"notNull;uniqueIndex"`

	// Password and Remember only ever hold values in memory, on their way
	// to being hashed. The hashes are what gets stored.
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Avatar returns the user's Gravatar URL. Avatars are derived from the
// email address, never stored.
func (u *User) Avatar() string {
	return Avatar(u.Email)
}

// Avatar derives a Gravatar URL from an email address.
func Avatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://gravatar.com/avatar/%x?s=128", sum)
}

// Profile is the public slice of a user attached to enriched posts and
// follower / following listings.
type Profile struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type UserService interface {
	CreateUser(user *User) error
	UpdateUser(user *User) error
	Authenticate(username, password string) (*User, error)
	FindUserByUsername(username string) (*User, error)
	FindUserByRemember(token string) (*User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
}
