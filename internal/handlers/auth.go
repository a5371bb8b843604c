package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/middleware"
	"github.com/taskly/backend/internal/services"
)

// AuthHandler handles the account lifecycle endpoints.
type AuthHandler struct {
	accounts *services.AccountService
	log      *slog.Logger
}

func NewAuthHandler(accounts *services.AccountService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log}
}

// CreateAccountRequest is the body for POST /api/auth/create-account.
type CreateAccountRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// TokenRequest carries a 6-digit confirmation or reset code.
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// EmailRequest carries just an email address.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NewPasswordRequest is the body for POST /api/auth/update-password/:token.
type NewPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateProfileRequest is the body for PUT /api/auth/profile.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest is the body for the authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
}

// PasswordRequest is the body for POST /api/auth/check-password.
type PasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// CreateAccount registers a new account and mails the confirmation code.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.Register(c.Request.Context(), req.Email, req.Name, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "account created, check your email to confirm it"})
}

// ConfirmAccount redeems a confirmation code.
func (h *AuthHandler) ConfirmAccount(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.Confirm(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account confirmed"})
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": session})
}

// RequestCode reissues a confirmation code for an unconfirmed account.
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.RequestConfirmationCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "a new code was sent to your email"})
}

// ForgotPassword issues a password reset code.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "check your email for instructions"})
}

// ValidateToken checks a reset code without consuming it.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.ValidateResetToken(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "valid code, set your new password"})
}

// ResetPassword consumes the reset code in the URL and stores the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req NewPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GetUser returns the authenticated user's profile.
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateProfile changes the caller's name and email.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), user, req.Name, req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// UpdatePassword changes the caller's password after verifying the current one.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// CheckPassword verifies the caller's password without changing anything.
func (h *AuthHandler) CheckPassword(c *gin.Context) {
	user, ok := middleware.RequireAuth(c)
	if !ok {
		return
	}

	var req PasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accounts.CheckPassword(c.Request.Context(), user.ID, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password is correct"})
}
