package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/tokens"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenStore keeps single-use verification and reset tokens.
type TokenStore interface {
	Save(ctx context.Context, kind tokens.Kind, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, kind tokens.Kind, token string) (string, error)
}

// TokenPair bundles the short-lived access token with the long-lived
// refresh token handed out at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo      repositories.UserRepository
	tokenStore    TokenStore
	notifier      Notifier
	jwtSecret     []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenStore TokenStore, notifier Notifier,
	jwtSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenStore:    tokenStore,
		notifier:      notifier,
		jwtSecret:     []byte(jwtSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterUser registers a new user, hashes their password and queues a
// verification email. The account stays unverified until the emailed
// token is redeemed.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken: %w", user.Username, repositories.ErrDuplicate)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered: %w", user.Email, repositories.ErrDuplicate)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if !user.Role.Valid() {
		user.Role = models.RoleCustomer
	}
	user.IsVerified = false
	user.IsActive = true

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	token := uuid.New().String()
	if err := s.tokenStore.Save(ctx, tokens.KindVerifyEmail, token, user.ID, verifyTokenTTL); err != nil {
		return err
	}
	if err := s.notifier.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		// Registration already succeeded; the user can request a resend.
		log.Printf("Warning: failed to queue verification email for %s: %v", user.Email, err)
	}
	return nil
}

// LoginUser authenticates by email and password and returns a token
// pair. Unverified and deactivated accounts are rejected after the
// password check so the error does not leak whether the account exists.
func (s *AuthService) LoginUser(email, password string) (*TokenPair, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, nil, ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, s.jwtSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// ValidateToken parses and validates an access token, returning its
// claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	return s.parseToken(tokenString, s.jwtSecret)
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The
// user's current role and flags are re-checked, so a deactivated user
// cannot keep refreshing.
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return s.issueTokens(user)
}

// VerifyEmail redeems an emailed verification token and marks the
// account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenStore.Consume(ctx, tokens.KindVerifyEmail, token)
	if errors.Is(err, tokens.ErrTokenNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	user.IsVerified = true
	return s.userRepo.Update(user)
}

// ResendVerification issues a fresh verification token for an account
// whose original email was lost. Unknown and already-verified
// addresses are silently ignored so the endpoint cannot be used to
// probe which emails are registered.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.IsVerified {
		return nil
	}

	token := uuid.New().String()
	if err := s.tokenStore.Save(ctx, tokens.KindVerifyEmail, token, user.ID, verifyTokenTTL); err != nil {
		return err
	}
	return s.notifier.SendVerificationEmail(user.Email, user.Name, token)
}

// ForgotPassword queues a password reset email. Unknown addresses are
// ignored without error so the endpoint cannot be used to probe which
// emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.New().String()
	if err := s.tokenStore.Save(ctx, tokens.KindPasswordReset, token, user.ID, resetTokenTTL); err != nil {
		return err
	}
	return s.notifier.SendPasswordResetEmail(user.Email, user.Name, token)
}

// ResetPassword redeems a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenStore.Consume(ctx, tokens.KindPasswordReset, token)
	if errors.Is(err, tokens.ErrTokenNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return s.userRepo.Update(user)
}

// ChangePassword replaces a logged-in user's password after verifying
// the current one.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return s.userRepo.Update(user)
}

// GetProfile returns the user behind an authenticated request.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}
