package controllers

import (
	"net/http"

	"github.com/fenstra/offers-backend/api/middleware"
	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/api/validators"
	"github.com/fenstra/offers-backend/internal/users"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/enums"
	"github.com/fenstra/offers-backend/pkg/logger"
)

type createUserResponse struct {
	User         UserDTO `json:"user"`
	TempPassword string  `json:"temp_password,omitempty"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// ListUsers returns all accounts, paged.
func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		rows, total, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteList(w, toUserDTOs(rows), total)
	}
}

// CreateUser provisions an account. When no password is supplied a
// generated temporary password is returned once in the response.
func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input users.CreateUserInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		user, tempPassword, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, createUserResponse{
			User:         toUserDTO(user),
			TempPassword: tempPassword,
		})
	}
}

// SetUserActive toggles account activation.
func SetUserActive(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var req setActiveRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		user, err := svc.SetActive(r.Context(), id, *req.Active)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toUserDTO(user))
	}
}

// SetUserRole changes an account's role.
func SetUserRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var req setRoleRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		user, err := svc.SetRole(r.Context(), id, role)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toUserDTO(user))
	}
}

// ResetUserPassword replaces the account password with a generated one
// and returns it once.
func ResetUserPassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		password, err := svc.ResetPassword(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"temp_password": password})
	}
}

// DeleteUser removes an account. Self-deletion is rejected.
func DeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, id); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
