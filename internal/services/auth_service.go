package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/ErikLozanov/job-application-tracker/internal/mailer"
	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"github.com/ErikLozanov/job-application-tracker/internal/repository"
	"github.com/ErikLozanov/job-application-tracker/internal/storage"
	"github.com/ErikLozanov/job-application-tracker/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToSignToken    = errors.New("failed to sign token")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *TokenService
	resetStore repository.ResetTokenStore
	mailer     mailer.Mailer
	blobs      storage.BlobStore
	clientURL  string
}

// NewAuthService creates a new AuthService. resetStore may be nil, in which
// case reset tokens are only bounded by their expiry.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *TokenService,
	resetStore repository.ResetTokenStore,
	m mailer.Mailer,
	blobs storage.BlobStore,
	clientURL string,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		resetStore: resetStore,
		mailer:     m,
		blobs:      blobs,
		clientURL:  strings.TrimSuffix(clientURL, "/"),
	}
}

// AuthResult is a user together with a freshly signed session token.
type AuthResult struct {
	User  *models.User
	Token string
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and signs them in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return s.withSession(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.withSession(user)
}

// RequestPasswordReset mails a reset link when the email belongs to a user.
// Unknown emails and mail delivery failures both return nil.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := s.tokens.GenerateResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSignToken, err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		log.Printf("Failed to send password reset email to user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword replaces the password of the token's user. Each token can be
// used once.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ValidateResetToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if s.resetStore != nil {
		fresh, err := s.resetStore.Consume(ctx, claims.ID, s.tokens.ResetExpiry())
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		if !fresh {
			return ErrInvalidToken
		}
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		if s.resetStore != nil {
			if releaseErr := s.resetStore.Release(ctx, claims.ID); releaseErr != nil {
				log.Printf("Failed to release reset token %s: %v", claims.ID, releaseErr)
			}
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput carries optional profile changes. Nil or blank values
// leave the field unchanged.
type UpdateProfileInput struct {
	Name     *string
	Password *string
}

// UpdateProfile applies the supplied changes and returns a new session token.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*AuthResult, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			user.Name = name
		}
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.withSession(user)
}

// DeleteAccount removes the user and all of their jobs, then their resume
// files.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint64) error {
	keys, err := s.userRepo.DeleteWithJobs(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	prefix := utils.ResumeKeyPrefixFor(userID)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			log.Printf("Skipping resume %s outside of %s", key, prefix)
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("Failed to delete resume %s of user %d: %v", key, userID, err)
		}
	}
	return nil
}

// Authenticate validates a session token and confirms its user still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint64, error) {
	claims, err := s.tokens.ValidateSessionToken(token)
	if err != nil {
		return 0, err
	}

	if _, err := s.GetUser(ctx, claims.UserID); err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *AuthService) withSession(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSignToken, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
