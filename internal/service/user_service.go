package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/helpinghand/internal/auth"
	"github.com/helpinghand/internal/db"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameInvalid    = errors.New("username must be 3-32 characters of letters, digits, dots or dashes")
	ErrEmailInvalid       = errors.New("email address is malformed")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrAccountExists      = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// UserService handles accounts, authentication and the author cascade.
type UserService struct {
	db            *gorm.DB
	assets        *AssetCleaner
	tokens        *auth.Manager
	externalHosts []string
}

// RegisterInput represents fields accepted when creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput represents the user-editable profile fields.
type ProfileInput struct {
	Bio       string
	AvatarURL string
}

// NewUserService creates a UserService instance. externalHosts lists image
// hosts whose assets are referenced but never owned.
func NewUserService(gdb *gorm.DB, assets *AssetCleaner, tokens *auth.Manager, externalHosts []string) *UserService {
	return &UserService{db: gdb, assets: assets, tokens: tokens, externalHosts: externalHosts}
}

// Register validates the input and creates an account with a bcrypt-hashed
// password. Uniqueness of username and email is enforced by the store.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     db.RoleMember,
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues an access token. The login name may
// be a username or an email address.
func (s *UserService) Login(login, password string) (string, *db.User, error) {
	login = strings.TrimSpace(login)

	var user db.User
	err := s.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies profile changes. Replacing the avatar orphans the
// previous hosted image, which is deleted best-effort unless it lives on an
// external provider.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	previousAvatar := user.AvatarURL
	user.Bio = strings.TrimSpace(input.Bio)
	user.AvatarURL = strings.TrimSpace(input.AvatarURL)

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	if previousAvatar != "" && previousAvatar != user.AvatarURL && !IsExternalAsset(previousAvatar, s.externalHosts) {
		s.assets.Delete(ctx, previousAvatar)
	}

	return user, nil
}

// Delete removes a user and everything that exists only in relation to it:
// owned posts with their comments and cover images, comments the user wrote
// on other posts, card applications with their photos, and the avatar
// unless it is provider-hosted. Dependents are removed before the user
// record; asset failures never block the cascade.
func (s *UserService) Delete(ctx context.Context, userID, actorID uint, admin bool) (*DeletionReport, error) {
	if !admin && actorID != userID {
		return nil, ErrForbidden
	}

	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	report := &DeletionReport{}

	var posts []db.Post
	if err := s.db.Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return nil, err
	}

	postIDs := make([]uint, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		if post.CoverURL != "" {
			report.Assets = append(report.Assets, s.assets.Delete(ctx, post.CoverURL))
		}
	}

	if len(postIDs) > 0 {
		res := s.db.Unscoped().Where("post_id IN ?", postIDs).Delete(&db.Comment{})
		if res.Error != nil {
			return nil, res.Error
		}
		report.CommentsDeleted += res.RowsAffected

		res = s.db.Unscoped().Where("user_id = ?", userID).Delete(&db.Post{})
		if res.Error != nil {
			return nil, res.Error
		}
		report.PostsDeleted = res.RowsAffected
	}

	// Comments this user wrote on other authors' posts.
	res := s.db.Unscoped().Where("user_id = ?", userID).Delete(&db.Comment{})
	if res.Error != nil {
		return nil, res.Error
	}
	report.CommentsDeleted += res.RowsAffected

	var cards []db.CardApplication
	if err := s.db.Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, err
	}
	for _, card := range cards {
		if card.PhotoURL != "" {
			report.Assets = append(report.Assets, s.assets.Delete(ctx, card.PhotoURL))
		}
	}
	if len(cards) > 0 {
		res = s.db.Unscoped().Where("user_id = ?", userID).Delete(&db.CardApplication{})
		if res.Error != nil {
			return nil, res.Error
		}
		report.CardsDeleted = res.RowsAffected
	}

	if user.AvatarURL != "" {
		if IsExternalAsset(user.AvatarURL, s.externalHosts) {
			report.Assets = append(report.Assets, AssetResult{URL: user.AvatarURL, Outcome: AssetSkipped})
		} else {
			report.Assets = append(report.Assets, s.assets.Delete(ctx, user.AvatarURL))
		}
	}

	if err := s.db.Unscoped().Delete(&db.User{}, userID).Error; err != nil {
		return nil, err
	}

	return report, nil
}
