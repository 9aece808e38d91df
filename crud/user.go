package crud

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ourApp/auth"
	"ourApp/domain"
	"ourApp/errs"
)

// UserService manages Users. It also contains the part of the
// authentication system that handles database interactions and token
// hashing; http/auth.go dealing with requests and cookies is the other
// part. It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
type userValidator struct {
	hmac          auth.HMAC
	pepper        string
	emailRegex    *regexp.Regexp
	usernameRegex *regexp.Regexp
	userGorm
}

// userGorm runs the database operations using incoming User data.
// It assumes that data has been validated.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, hmacKey, pepper string) *UserService {
	return &UserService{
		userValidator{
			hmac:          auth.NewHMAC(hmacKey),
			pepper:        pepper,
			emailRegex:    regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			usernameRegex: regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

var _ domain.UserService = &UserService{}

// Authenticate checks a submitted username and password for existence and
// correctness.
func (uv *userValidator) Authenticate(username, password string) (*domain.User, error) {
	found, err := uv.userGorm.byUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.EINVALID, "Invalid username / password.")
		}
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return nil, errs.Errorf(errs.EINVALID, "Invalid username / password.")
		}
		return nil, err
	}
	return found, nil
}

// FindUserByUsername retrieves a user by username, matching
// case-insensitively.
func (uv *userValidator) FindUserByUsername(username string) (*domain.User, error) {
	found, err := uv.userGorm.byUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return found, nil
}

// FindUserByRemember hashes a raw remember token and looks it up. The
// checkUser middleware calls this on every request, trying to identify a
// user by a request cookie.
func (uv *userValidator) FindUserByRemember(token string) (*domain.User, error) {
	user := domain.User{
		Remember: token,
	}
	if err := uv.rememberHmac(&user); err != nil {
		return nil, err
	}
	return uv.userGorm.byRemember(user.RememberHash)
}

// UsernameExists reports whether a username is already registered.
func (uv *userValidator) UsernameExists(username string) (bool, error) {
	_, err := uv.userGorm.byUsername(username)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EmailExists reports whether an email address is already registered.
func (uv *userValidator) EmailExists(email string) (bool, error) {
	_, err := uv.userGorm.byEmail(strings.ToLower(strings.TrimSpace(email)))
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser runs the validations needed for registering a new user. It
// will create a remember token if none is provided. Validation messages
// are accumulated so the registration form can show all of them at once.
func (uv *userValidator) CreateUser(user *domain.User) error {
	err := runUserValFns(user,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameFormat,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail,
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.rememberSetIfUnset,
		uv.rememberMinBytes,
		uv.rememberHmac,
		uv.rememberHashRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.create(user)
}

// UpdateUser runs the validations needed for updating a user record. It
// will hash a remember token if one is provided.
func (uv *userValidator) UpdateUser(user *domain.User) error {
	err := runUserValFns(user,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameFormat,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.passwordHashRequired,
		uv.rememberMinBytes,
		uv.rememberHmac,
		uv.rememberHashRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.update(user)
}

// runUserValFns runs the given validations on the passed in User object,
// collecting the messages of every EINVALID failure so they can all be
// reported at once. Unexpected errors stop the run immediately.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	var msgs []string
	for _, fn := range fns {
		if err := fn(user); err != nil {
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

// A userValFn is any function that takes in a pointer to a domain.User
// object and returns an error.
type userValFn func(user *domain.User) error

// usernameNormalize trims the username's whitespace.
func (uv *userValidator) usernameNormalize(user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	return nil
}

// usernameRequired makes sure that the username is not the empty string.
func (uv *userValidator) usernameRequired(user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "A username is required.")
	}
	return nil
}

// usernameFormat makes sure that the username only contains letters and
// numbers and has a sane length.
func (uv *userValidator) usernameFormat(user *domain.User) error {
	if user.Username == "" {
		return nil
	}
	if !uv.usernameRegex.MatchString(user.Username) {
		return errs.Errorf(errs.EINVALID, "The username can only contain letters and numbers (3 to 30 characters).")
	}
	return nil
}

// usernameIsAvail makes sure that the username is not yet taken, matching
// case-insensitively.
func (uv *userValidator) usernameIsAvail(user *domain.User) error {
	existing, err := uv.userGorm.byUsername(user.Username)
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.EINVALID, "This username is already taken.")
	}
	return nil
}

// emailFormat makes sure that a provided email address matches a predefined
// regex pattern.
func (uv *userValidator) emailFormat(user *domain.User) error {
	if user.Email == "" {
		return nil
	}
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "The email address is invalid.")
	}
	return nil
}

// emailIsAvail makes sure that a provided email address is not yet taken.
func (uv *userValidator) emailIsAvail(user *domain.User) error {
	existing, err := uv.userGorm.byEmail(user.Email)
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.EINVALID, "This email address is already taken.")
	}
	return nil
}

// emailNormalize converts the email to all lowercase and trims its
// whitespaces.
func (uv *userValidator) emailNormalize(user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	user.Email = strings.TrimSpace(user.Email)
	return nil
}

// emailRequired makes sure that the email is not the empty string.
func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper, if the
// Password field is not the empty string. It then clears the password on
// the user object in memory.
func (uv *userValidator) passwordBcrypt(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	pwBytes := []byte(user.Password + uv.pepper)
	hashedBytes, err := bcrypt.GenerateFromPassword(pwBytes, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedBytes)
	user.Password = ""
	return nil
}

// passwordHashRequired makes sure that the user's password hash is not the
// empty string. On updates a missing hash means the record was never loaded
// properly, so this guards against wiping it.
func (uv *userValidator) passwordHashRequired(user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordMinLength makes sure that the user's password is at least 8
// characters long.
func (uv *userValidator) passwordMinLength(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	if utf8.RuneCountInString(user.Password) < 8 {
		return errs.Errorf(errs.EINVALID, "The password must have at least 8 characters.")
	}
	return nil
}

// passwordRequired makes sure that the user's password is not the empty
// string.
func (uv *userValidator) passwordRequired(user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// rememberHashRequired makes sure the user's remember token hash is not the
// empty string.
func (uv *userValidator) rememberHashRequired(user *domain.User) error {
	if user.RememberHash == "" {
		return errs.Errorf(errs.EINVALID, "A remember token is required.")
	}
	return nil
}

// rememberHmac creates the user's remember token hash, if a remember token
// has been provided.
func (uv *userValidator) rememberHmac(user *domain.User) error {
	if user.Remember == "" {
		return nil
	}
	user.RememberHash = uv.hmac.Hash(user.Remember)
	return nil
}

// rememberMinBytes makes sure that the user's remember token is not too
// short.
func (uv *userValidator) rememberMinBytes(user *domain.User) error {
	if user.Remember == "" {
		return nil
	}
	n, err := auth.NBytes(user.Remember)
	if err != nil {
		return err
	}
	if n < auth.RememberTokenBytes {
		return errs.Errorf(errs.EINVALID, "The remember token is too short.")
	}
	return nil
}

// rememberSetIfUnset creates the user's remember token if none is provided.
func (uv *userValidator) rememberSetIfUnset(user *domain.User) error {
	if user.Remember != "" {
		return nil
	}
	token, err := auth.MakeRememberToken()
	if err != nil {
		return err
	}
	user.Remember = token
	return nil
}

// byUsername retrieves a User database record by username, matching
// case-insensitively.
func (ug *userGorm) byUsername(username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "LOWER(username) = LOWER(?)", username).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// byEmail retrieves a User database record by email.
func (ug *userGorm) byEmail(email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// byRemember retrieves a User database record by its hashed remember token.
func (ug *userGorm) byRemember(rememberHash string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "remember_hash = ?", rememberHash).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// create stores the data from the User object in a new database record.
func (ug *userGorm) create(user *domain.User) error {
	return ug.db.Create(user).Error
}

// update saves changes to an existing user record in the database.
func (ug *userGorm) update(user *domain.User) error {
	return ug.db.Save(user).Error
}
