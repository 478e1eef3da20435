package controllers

import (
	"net/http"

	"github.com/fenstra/offers-backend/api/middleware"
	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/api/validators"
	"github.com/fenstra/offers-backend/internal/auth"
	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/logger"
)

type loginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// Login authenticates credentials and returns a bearer token. Attempts are
// additionally throttled per email on top of the route's IP window.
func Login(svc auth.Service, limiter *middleware.RateLimiter, cfg config.AuthRateLimitConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := limiter.AllowEmail(r.Context(), "login", input.Email, cfg.LoginEmailLimit, cfg.LoginWindow); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		result, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		responses.WriteSuccess(w, http.StatusOK, loginResponse{
			Token: result.Token,
			User:  toUserDTO(result.User),
		})
	}
}

// Register creates a self-service account and logs it in.
func Register(svc auth.Service, limiter *middleware.RateLimiter, cfg config.AuthRateLimitConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RegisterInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := limiter.AllowEmail(r.Context(), "register", input.Email, cfg.RegisterEmailLimit, cfg.RegisterWindow); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		result, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		responses.WriteSuccess(w, http.StatusCreated, loginResponse{
			Token: result.Token,
			User:  toUserDTO(result.User),
		})
	}
}

// Me returns the authenticated account.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		responses.WriteSuccess(w, http.StatusOK, map[string]any{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"role":    claims.Role,
		})
	}
}
