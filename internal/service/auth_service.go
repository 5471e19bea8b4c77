package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/unheard/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrEmailTaken          = errors.New("user already registered")
	ErrInvalidCredentials  = errors.New("invalid login credentials")
)

// MinPasswordLength matches the identity provider's default policy.
const MinPasswordLength = 6

// AuthService is the identity provider: it issues and checks credentials and
// mirrors every new identity into the users table.
type AuthService struct {
	db   *gorm.DB
	cost int
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// NewAuthService creates an AuthService instance.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb, cost: bcrypt.DefaultCost}
}

// SignUp registers a new identity and its profile row.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*Actor, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	gdb := s.db.WithContext(ctx)

	var count int64
	if err := gdb.Model(&db.Identity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, storeError("sign up", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}

	identity := db.Identity{Email: email, PasswordHash: string(hashed)}
	if err := gdb.Create(&identity).Error; err != nil {
		slog.Error("error creating identity", "category", "auth", "error", err)
		return nil, storeError("sign up", err)
	}

	fullName := strings.TrimSpace(input.FullName)
	user := db.User{
		ID:       identity.ID,
		Name:     fullName,
		FullName: fullName,
		Email:    email,
	}
	if err := gdb.Create(&user).Error; err != nil {
		// The identity stays usable; the profile row can be recreated later.
		slog.Error("error creating user profile", "category", "auth", "user_id", identity.ID, "error", err)
	}

	return &Actor{ID: identity.ID, Email: identity.Email}, nil
}

// SignIn checks credentials and returns the matching actor.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Actor, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	var identity db.Identity
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Actor{ID: identity.ID, Email: identity.Email}, nil
}

// Actor resolves a session user id into the current actor.
func (s *AuthService) Actor(ctx context.Context, id string) (*Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUnauthenticated
	}

	var identity db.Identity
	if err := s.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, storeError("get user", err)
	}
	return &Actor{ID: identity.ID, Email: identity.Email}, nil
}

// ChangePassword sets a new password for actor after confirming it.
func (s *AuthService) ChangePassword(ctx context.Context, actor *Actor, password, confirm string) error {
	if err := actor.check(); err != nil {
		return err
	}
	if password == "" || confirm == "" {
		return ErrCredentialsRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&db.Identity{}).
		Where("id = ?", actor.ID).
		Update("password_hash", string(hashed))
	if result.Error != nil {
		return storeError("change password", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUnauthenticated
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
