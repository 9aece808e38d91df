package domain

import "time"

type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id" gorm:"notNull;index"`
	User   User   `json:"-"`
	Title  string `json:"title" gorm:"notNull"`
	Body   string `json:"body" gorm:"notNull"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput is the only shape of user-supplied post data the app accepts.
// Requests may carry arbitrary extra fields; they are ignored by
// construction because nothing else gets decoded into this struct.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// EnrichedPost is a post joined with its author's public profile and an
// ownership flag relative to a specific visitor. It is computed per query
// and never persisted.
type EnrichedPost struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	Author         Profile   `json:"author"`
	IsVisitorOwner bool      `json:"is_visitor_owner"`
}

// AnonymousID is the acting identity of an unauthenticated visitor.
// It never owns anything and never follows anyone.
const AnonymousID = 0

// IsOwner reports whether the acting user owns a resource, by identity
// comparison of the stored author id against the acting user id. The
// anonymous visitor is never an owner.
func IsOwner(resourceAuthorID, actingUserID int) bool {
	if actingUserID == AnonymousID {
		return false
	}
	return resourceAuthorID == actingUserID
}

// PostService is a set of methods to create, change and read posts. Read
// operations take the visitor's user id (AnonymousID when logged out) and
// return enriched posts; the ownership flag is computed the same way on
// every path.
type PostService interface {
	CreatePost(in PostInput, authorID int) (int, error)
	FindPostByID(id string, visitorID int) (*EnrichedPost, error)
	UpdatePost(id string, visitorID int, in PostInput) error
	DeletePost(id string, visitorID int) error
	FindPostsByAuthor(authorID int) ([]EnrichedPost, error)
	CountPostsByAuthor(authorID int) (int, error)
	SearchPosts(term string) ([]EnrichedPost, error)
	GetFeed(userID int) ([]EnrichedPost, error)
}
