package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mcg-platform/componentgen/internal/api/middleware"
	"github.com/mcg-platform/componentgen/internal/api/response"
	"github.com/mcg-platform/componentgen/internal/config"
	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/service"
)

var validate = validator.New()

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	cookieCfg   config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookieCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookieCfg: cookieCfg}
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func validationMessages(err error) any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs[field] = "field is required"
		case "email":
			msgs[field] = "invalid email format"
		case "min":
			msgs[field] = "must be at least " + e.Param() + " characters"
		case "max":
			msgs[field] = "must be at most " + e.Param() + " characters"
		default:
			msgs[field] = "validation failed on " + e.Tag()
		}
	}
	return msgs
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input domain.UserSignup
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user, token, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Conflict(w, "email already registered")
			return
		}
		response.InternalError(w, "failed to create account")
		return
	}

	h.setTokenCookie(w, token, h.cookieCfg.TokenTTL)
	response.Created(w, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(w, "invalid credentials")
			return
		}
		response.InternalError(w, "login failed")
		return
	}

	h.setTokenCookie(w, token, h.cookieCfg.TokenTTL)
	response.OK(w, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// Logout clears the auth cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -time.Second)
	response.OK(w, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "not authenticated")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.Unauthorized(w, "user not found")
			return
		}
		response.InternalError(w, "failed to load user")
		return
	}

	response.OK(w, user)
}
