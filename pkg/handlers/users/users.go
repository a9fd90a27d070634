// Package users serves the administrator views of accounts: retailer
// verification and account activation.
package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/mapping"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/respond"
	"github.com/oapi-codegen/runtime"
)

// Accounts is the part of the account service administrators drive.
type Accounts interface {
	ListRetailers(ctx context.Context, pendingOnly bool) ([]models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
	VerifyRetailer(ctx context.Context, adminID, userID string, verified bool) (*models.User, error)
	SetActive(ctx context.Context, adminID, userID string, active bool) (*models.User, error)
}

// UsersHandler holds the dependencies for the account administration handlers.
type UsersHandler struct {
	Accounts Accounts
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(accounts Accounts) *UsersHandler {
	return &UsersHandler{Accounts: accounts}
}

func principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("authentication required"))
		return "", false
	}
	return claims.UserID, true
}

// ListRetailers returns retailers. ?pending=true limits the list to those
// awaiting verification.
func (h *UsersHandler) ListRetailers(w http.ResponseWriter, r *http.Request) {
	var pending bool
	if err := runtime.BindQueryParameter("form", true, false, "pending", r.URL.Query(), &pending); err != nil {
		respond.Error(w, r, apperr.Validation(fmt.Sprintf("invalid format for parameter %s", "pending"), err.Error()))
		return
	}

	users, err := h.Accounts.ListRetailers(r.Context(), pending)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiUsers(users))
}

// ListAdmins returns every administrator.
func (h *UsersHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.ListAdmins(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiUsers(users))
}

// VerifyRetailer approves a retailer for sign-in.
func (h *UsersHandler) VerifyRetailer(w http.ResponseWriter, r *http.Request, userId string) {
	adminID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.VerifyRetailerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.Accounts.VerifyRetailer(r.Context(), adminID, userId, *req.Verified)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiUser(user))
}

// UpdateStatus activates or deactivates an account.
func (h *UsersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, userId string) {
	adminID, ok := principal(w, r)
	if !ok {
		return
	}

	var req api.UserStatusUpdate
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.Accounts.SetActive(r.Context(), adminID, userId, *req.IsActive)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiUser(user))
}
