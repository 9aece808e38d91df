package crud

import (
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ourApp/domain"
	"ourApp/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator cleans and validates incoming Post data and derives the
// ownership decisions for mutations. On success, it passes the data on to
// postGorm. Otherwise, it returns the error of the check that has failed.
type postValidator struct {
	policy *bluemonday.Policy
	postGorm
}

// postGorm runs the database operations using incoming Post data.
// It assumes that data has been validated.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			policy: newStrictPolicy(),
			postGorm: postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService
// interface. If it does not, this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// CreatePost cleans and validates the submitted fields and, on success,
// inserts a new post stamped with the authoring user and the current time.
// It returns the id of the new post.
func (pv *postValidator) CreatePost(in domain.PostInput, authorID int) (int, error) {
	if authorID <= 0 {
		return 0, errs.Errorf(errs.EINVALID, "You must be logged in to create a post.")
	}
	in = pv.cleanInput(in)
	if err := validatePostInput(in); err != nil {
		return 0, err
	}
	post := &domain.Post{
		UserID: authorID,
		Title:  in.Title,
		Body:   in.Body,
	}
	if err := pv.postGorm.create(post); err != nil {
		return 0, err
	}
	return post.ID, nil
}

// FindPostByID returns a single enriched post. A malformed identifier is
// treated the same as a missing post.
func (pv *postValidator) FindPostByID(id string, visitorID int) (*domain.EnrichedPost, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	return pv.postGorm.byID(postID, visitorID)
}

// UpdatePost changes the title and body of a post, and nothing else. Only
// the owning author may update a post; a non-owner gets ENOTOWNER, not
// ENOTFOUND, since existence is not hidden here. Validation runs after the
// ownership check, so a non-owner never sees validation messages.
func (pv *postValidator) UpdatePost(id string, visitorID int, in domain.PostInput) error {
	postID, err := parsePostID(id)
	if err != nil {
		return err
	}
	if err := pv.visitorOwnsPost(postID, visitorID); err != nil {
		return err
	}
	in = pv.cleanInput(in)
	if err := validatePostInput(in); err != nil {
		return err
	}
	return pv.postGorm.update(postID, visitorID, in)
}

// DeletePost deletes a post. Same ownership pattern as UpdatePost.
func (pv *postValidator) DeletePost(id string, visitorID int) error {
	postID, err := parsePostID(id)
	if err != nil {
		return err
	}
	if err := pv.visitorOwnsPost(postID, visitorID); err != nil {
		return err
	}
	return pv.postGorm.delete(postID, visitorID)
}

// FindPostsByAuthor returns all posts by one author, newest first. The
// profile screens render these for any visitor, so the ownership flag is
// computed against the anonymous identity.
func (pv *postValidator) FindPostsByAuthor(authorID int) ([]domain.EnrichedPost, error) {
	return pv.postGorm.byAuthor(authorID)
}

// CountPostsByAuthor returns the number of posts one author has written.
func (pv *postValidator) CountPostsByAuthor(authorID int) (int, error) {
	return pv.postGorm.countByAuthor(authorID)
}

// SearchPosts runs a full-text search over titles and bodies, most relevant
// first. A blank term yields an empty result, not an error. Search is open
// to anonymous visitors, so the ownership flag is always false.
func (pv *postValidator) SearchPosts(term string) ([]domain.EnrichedPost, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.EnrichedPost{}, nil
	}
	return pv.postGorm.search(term)
}

// GetFeed returns the posts authored by everyone the given user follows,
// newest first. A user following nobody gets an empty feed.
func (pv *postValidator) GetFeed(userID int) ([]domain.EnrichedPost, error) {
	return pv.postGorm.feed(userID)
}

// cleanInput strips markup from the recognized fields. Anything else a
// request may have carried never makes it into a PostInput in the first
// place.
func (pv *postValidator) cleanInput(in domain.PostInput) domain.PostInput {
	return domain.PostInput{
		Title: stripMarkup(pv.policy, in.Title),
		Body:  stripMarkup(pv.policy, in.Body),
	}
}

// validatePostInput checks cleaned input and accumulates every message that
// applies before rejecting.
func validatePostInput(in domain.PostInput) error {
	var msgs []string
	if in.Title == "" {
		msgs = append(msgs, "You must provide a title.")
	}
	if in.Body == "" {
		msgs = append(msgs, "You must provide some content for the post.")
	}
	if len(msgs) > 0 {
		return errs.Invalid(msgs...)
	}
	return nil
}

// parsePostID validates a route-supplied post identifier. Anything that is
// not a positive integer cannot name a post, so it maps to ENOTFOUND rather
// than a validation failure.
func parsePostID(id string) (int, error) {
	postID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || postID <= 0 {
		return 0, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return postID, nil
}

// visitorOwnsPost loads the stored author of a post and compares it to the
// acting user.
func (pv *postValidator) visitorOwnsPost(postID, visitorID int) error {
	var post domain.Post
	err := pv.db.Select("id", "user_id").First(&post, "id = ?", postID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	if !domain.IsOwner(post.UserID, visitorID) {
		return errs.Errorf(errs.ENOTOWNER, "You do not have permission to perform that action!")
	}
	return nil
}

// postRow is the flat scan target of the shared enriched-post query.
type postRow struct {
	ID        int
	Title     string
	Body      string
	CreatedAt time.Time
	UserID    int
	Username  string
	Email     string
}

// A postScope is a filter or sort stage applied on top of the shared
// enriched-post query.
type postScope = func(db *gorm.DB) *gorm.DB

// enrichedPosts is the one query underneath every post read path: the
// caller's scopes select and order the rows, then a single join attaches
// the author and a single projection produces the EnrichedPost shape. Every
// returned post therefore has an identical shape and an identically
// computed ownership flag, no matter which operation asked for it.
func (pg *postGorm) enrichedPosts(visitorID int, scopes ...postScope) ([]domain.EnrichedPost, error) {
	db := pg.db.
		Model(&domain.Post{}).
		Select("posts.id, posts.title, posts.body, posts.created_at, posts.user_id, users.username, users.email").
		Joins("JOIN users ON users.id = posts.user_id")
	for _, scope := range scopes {
		db = scope(db)
	}
	var rows []postRow
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}
	posts := make([]domain.EnrichedPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, domain.EnrichedPost{
			ID:        row.ID,
			Title:     row.Title,
			Body:      row.Body,
			CreatedAt: row.CreatedAt,
			Author: domain.Profile{
				Username: row.Username,
				Avatar:   domain.Avatar(row.Email),
			},
			IsVisitorOwner: domain.IsOwner(row.UserID, visitorID),
		})
	}
	return posts, nil
}

func (pg *postGorm) byID(postID, visitorID int) (*domain.EnrichedPost, error) {
	posts, err := pg.enrichedPosts(visitorID, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id = ?", postID)
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return &posts[0], nil
}

func (pg *postGorm) byAuthor(authorID int) ([]domain.EnrichedPost, error) {
	return pg.enrichedPosts(domain.AnonymousID, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("posts.user_id = ?", authorID).
			Order("posts.created_at DESC")
	})
}

func (pg *postGorm) search(term string) ([]domain.EnrichedPost, error) {
	return pg.enrichedPosts(domain.AnonymousID, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("to_tsvector('english', posts.title || ' ' || posts.body) @@ plainto_tsquery('english', ?)", term).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(to_tsvector('english', posts.title || ' ' || posts.body), plainto_tsquery('english', ?)) DESC",
				Vars:               []interface{}{term},
				WithoutParentheses: true,
			}})
	})
}

func (pg *postGorm) feed(userID int) ([]domain.EnrichedPost, error) {
	followed := pg.db.
		Model(&domain.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)
	return pg.enrichedPosts(userID, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("posts.user_id IN (?)", followed).
			Order("posts.created_at DESC")
	})
}

func (pg *postGorm) countByAuthor(authorID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Post{}).Where("user_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// create stores the data from the Post object in a new database record.
func (pg *postGorm) create(post *domain.Post) error {
	return pg.db.Create(post).Error
}

// update persists the new title and body through a single conditional
// write filtered by both the post id and the stored author. That keeps a
// concurrent delete or ownership change from slipping between the ownership
// check and the write, and it cannot touch created_at or user_id.
func (pg *postGorm) update(postID, visitorID int, in domain.PostInput) error {
	res := pg.db.
		Model(&domain.Post{}).
		Where("id = ? AND user_id = ?", postID, visitorID).
		Select("title", "body").
		Updates(domain.Post{Title: in.Title, Body: in.Body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// The row changed between the ownership check and the write.
		return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return nil
}

// delete removes the post through the same conditional-write pattern as
// update.
func (pg *postGorm) delete(postID, visitorID int) error {
	res := pg.db.Delete(&domain.Post{}, "id = ? AND user_id = ?", postID, visitorID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return nil
}
