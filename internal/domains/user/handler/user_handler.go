package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/internal/shared/middleware"
	"launchsignal-backend/internal/shared/response"
)

const CodeEmailTaken = "EMAIL_TAKEN"

// CookieConfig describes the session cookie written on sign-in.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

type UserHandler struct {
	service user.Service
	cookie  CookieConfig
}

func NewUserHandler(service user.Service, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		service: service,
		cookie:  cookie,
	}
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusCreated, result.User)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, result.User)
}

// GoogleLogin handles POST /api/users/google-login
func (h *UserHandler) GoogleLogin(c *gin.Context) {
	var req user.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.GoogleLogin(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)
	response.Success(c, http.StatusOK, result.User)
}

// Logout always succeeds, with or without a session.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateInterests(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req user.UpdateInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateInterests(c.Request.Context(), identity.UserID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *UserHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	var needsSignup *user.NeedsSignupError

	switch {
	case errors.As(err, &validationErrs):
		response.ValidationError(c, validationErrs)
	case errors.As(err, &needsSignup):
		response.ErrorWithDetails(c, http.StatusNotFound, response.CodeNotFound,
			"No account found for this Google email, please sign up first",
			gin.H{"needs_signup": true, "email": needsSignup.Email})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.ErrorResponse(c, http.StatusBadRequest, CodeEmailTaken, "Email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, user.ErrTooManyAttempts):
		response.TooManyRequests(c, "Too many failed login attempts, please try again later")
	case errors.Is(err, user.ErrMissingCredential):
		response.BadRequest(c, "Google credential is required")
	case errors.Is(err, user.ErrGoogleEmailMissing):
		response.BadRequest(c, "Google account has no email")
	case errors.Is(err, user.ErrGoogleEmailUnverified):
		response.Unauthorized(c, "Google account email is not verified")
	case errors.Is(err, user.ErrGoogleTokenInvalid):
		response.Unauthorized(c, "Google token verification failed")
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		response.InternalServerError(c, err)
	}
}
