package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfo is the subset of Google's userinfo response we need.
type GoogleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// userInfoFetcher resolves an OAuth token into the user's profile. It
// is a field so tests can stub out the call to Google.
type userInfoFetcher func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error)

// GoogleAuthService implements login via Google OAuth. First-time
// visitors get an account provisioned automatically; Google has already
// verified their email, so the account skips the verification step.
type GoogleAuthService struct {
	userRepo    repositories.UserRepository
	authService *AuthService
	conf        *oauth2.Config
	exchange    func(ctx context.Context, code string) (*oauth2.Token, error)
	fetchUser   userInfoFetcher
}

// NewGoogleAuthService creates a new GoogleAuthService.
func NewGoogleAuthService(userRepo repositories.UserRepository, authService *AuthService,
	clientID, clientSecret, redirectURL string) *GoogleAuthService {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	return &GoogleAuthService{
		userRepo:    userRepo,
		authService: authService,
		conf:        conf,
		exchange: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return conf.Exchange(ctx, code)
		},
		fetchUser:   fetchGoogleUserInfo,
	}
}

// AuthCodeURL returns the Google consent page URL for the given
// anti-forgery state.
func (s *GoogleAuthService) AuthCodeURL(state string) string {
	return s.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleCallback exchanges the authorization code, provisions the user
// if needed and returns a token pair.
func (s *GoogleAuthService) HandleCallback(ctx context.Context, code string) (*TokenPair, *models.User, error) {
	token, err := s.exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	info, err := s.fetchUser(ctx, s.conf, token)
	if err != nil {
		return nil, nil, err
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, nil, fmt.Errorf("google account has no verified email")
	}

	user, err := s.userRepo.GetByEmail(info.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = s.provisionUser(info)
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	pair, err := s.authService.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// provisionUser creates a local account for a first-time Google login.
// The password is random and unknown to anyone; such accounts can only
// log in via Google until they run a password reset.
func (s *GoogleAuthService) provisionUser(info *GoogleUserInfo) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:   usernameFromEmail(info.Email),
		Name:       info.Name,
		Email:      info.Email,
		Password:   string(hashedPassword),
		Role:       models.RoleCustomer,
		IsVerified: true,
		IsActive:   true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to provision google user: %w", err)
	}
	return user, nil
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	// Suffix keeps the username unique if the local part is taken.
	return fmt.Sprintf("%s-%s", local, uuid.New().String()[:8])
}

func fetchGoogleUserInfo(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := conf.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info request returned status %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}
	return &info, nil
}
