package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type silentNotifier struct{}

func (silentNotifier) SendOrderInvoice(order *models.Order) error             { return nil }
func (silentNotifier) SendVerificationEmail(email, name, token string) error  { return nil }
func (silentNotifier) SendPasswordResetEmail(email, name, token string) error { return nil }

func setupGoogleService(t *testing.T, dbName string) (*GoogleAuthService, repositories.UserRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repositories.NewGORMUserRepository(db)
	authService := NewAuthService(userRepo, nil, silentNotifier{},
		"test_jwt_secret", "test_refresh_secret", time.Hour, 24*time.Hour)
	svc := NewGoogleAuthService(userRepo, authService, "client-id", "client-secret",
		"http://localhost/callback")

	svc.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "stub-access-token"}, nil
	}
	svc.fetchUser = func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error) {
		return &GoogleUserInfo{Email: "reader@example.com", VerifiedEmail: true, Name: "Avid Reader"}, nil
	}
	return svc, userRepo
}

func TestGoogleAuthService_AuthCodeURL(t *testing.T) {
	svc, _ := setupGoogleService(t, "googlesvc_url")

	url := svc.AuthCodeURL("state-123")
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "client_id=client-id")
}

func TestGoogleAuthService_HandleCallback_ProvisionsFirstTimer(t *testing.T) {
	svc, userRepo := setupGoogleService(t, "googlesvc_provision")

	pair, user, err := svc.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	// Google already vouched for the email.
	assert.True(t, user.IsVerified)
	assert.True(t, strings.HasPrefix(user.Username, "reader-"))

	stored, err := userRepo.GetByEmail("reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestGoogleAuthService_HandleCallback_ExistingAccount(t *testing.T) {
	svc, userRepo := setupGoogleService(t, "googlesvc_existing")

	existing := &models.User{
		Username: "reader", Name: "Avid Reader", Email: "reader@example.com",
		Password: "irrelevant", Role: models.RoleCustomer, IsVerified: true, IsActive: true,
	}
	require.NoError(t, userRepo.Create(existing))

	_, user, err := svc.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)

	// A deactivated account stays locked out even via Google.
	existing.IsActive = false
	require.NoError(t, userRepo.Update(existing))
	_, _, err = svc.HandleCallback(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestGoogleAuthService_HandleCallback_RejectsUnverifiedEmail(t *testing.T) {
	svc, _ := setupGoogleService(t, "googlesvc_unverified")
	svc.fetchUser = func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error) {
		return &GoogleUserInfo{Email: "reader@example.com", VerifiedEmail: false}, nil
	}

	_, _, err := svc.HandleCallback(context.Background(), "auth-code")
	assert.Error(t, err)
}
