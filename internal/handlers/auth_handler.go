package handlers

import (
	"log"

	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService   *services.AuthService
	googleService *services.GoogleAuthService
	validate      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, googleService *services.GoogleAuthService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		googleService: googleService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Get("/verify-email", h.HandleVerifyEmail)
	authRoutes.Post("/resend-verification", h.HandleResendVerification)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
	authRoutes.Get("/google", h.HandleGoogleLogin)
	authRoutes.Get("/google/callback", h.HandleGoogleCallback)
}

// RegisterProtectedRoutes registers routes that need a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", h.HandleProfile)
	authRoutes.Post("/change-password", h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user := models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
	}
	if err := h.authService.RegisterUser(c.Context(), &user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondDomainError(c, err)
	}

	user.Password = ""
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{
		"user":    user,
		"message": "Registration successful, please check your email to verify your account",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	pair, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondDomainError(c, err)
	}

	user.Password = ""
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"tokens": pair,
		"user":   user,
	})
}

// RefreshRequest represents the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// HandleRefresh exchanges a refresh token for a new pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	pair, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"tokens": pair})
}

// HandleVerifyEmail redeems the verification token from the email link.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return respondFail(c, fiber.StatusBadRequest, "token query parameter is required")
	}
	if err := h.authService.VerifyEmail(c.Context(), token); err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"message": "Email verified successfully"})
}

// ResendVerificationRequest represents the request body for a new
// verification email.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResendVerification queues a fresh verification email. The
// response is identical whether or not the email needs one.
func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.ResendVerification(c.Context(), req.Email); err != nil {
		log.Printf("Error resending verification for %s: %v", req.Email, err)
		return respondError(c, "Could not process the request")
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"message": "If the email is registered and unverified, a new verification link has been sent",
	})
}

// ForgotPasswordRequest represents the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword queues a password reset email. The response is
// identical whether or not the email is registered.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.ForgotPassword(c.Context(), req.Email); err != nil {
		log.Printf("Error handling forgot password for %s: %v", req.Email, err)
		return respondError(c, "Could not process the request")
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPasswordRequest represents the request body for a reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleResetPassword redeems a reset token and sets a new password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"message": "Password reset successfully"})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword replaces the authenticated user's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondDomainError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"message": "Password changed successfully"})
}

// HandleProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	user.Password = ""
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"user": user})
}

// HandleGoogleLogin redirects the browser to Google's consent page.
func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	state := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Redirect(h.googleService.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// HandleGoogleCallback finishes the OAuth flow and issues tokens.
func (h *AuthHandler) HandleGoogleCallback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies("oauth_state") {
		return respondFail(c, fiber.StatusBadRequest, "Invalid OAuth state")
	}
	code := c.Query("code")
	if code == "" {
		return respondFail(c, fiber.StatusBadRequest, "Missing authorization code")
	}

	pair, user, err := h.googleService.HandleCallback(c.Context(), code)
	if err != nil {
		log.Printf("Error handling google callback: %v", err)
		return respondDomainError(c, err)
	}

	user.Password = ""
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"tokens": pair,
		"user":   user,
	})
}
