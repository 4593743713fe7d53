package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
)

var (
	ErrUserExists         = errors.New("user exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	users      *store.UserStore
	tokenAuth  *jwtauth.JWTAuth
	adminEmail string
}

func NewAuthService(users *store.UserStore, tokenAuth *jwtauth.JWTAuth, adminEmail string) *AuthService {
	return &AuthService{
		users:      users,
		tokenAuth:  tokenAuth,
		adminEmail: adminEmail,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.Insert(ctx, &models.User{
		Name:         name,
		Email:        email,
		Password:     string(hashed),
		Subscription: models.SubscriptionFree,
		Role:         models.RoleUser,
		TotalQrs:     0,
		CreatedAt:    time.Now(),
	})
}

// Login checks credentials and issues a 7-day token carrying the claims the
// other routes authorize on.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role := models.RoleUser
	if s.adminEmail != "" && email == s.adminEmail {
		role = models.RoleAdmin
	}
	user.Role = role

	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"userId":       user.ID.Hex(),
		"email":        user.Email,
		"role":         role,
		"subscription": user.Subscription,
		"exp":          time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	if err != nil {
		log.Errorf("failed to sign token for %s: %v", email, err)
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, user, nil
}
