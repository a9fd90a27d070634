package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/handlers/users"
	"github.com/chris/retailer-services/pkg/handlers/users/mocks"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &account.Claims{UserID: "admin-1", Role: models.RoleAdmin}))
}

func TestListRetailers(t *testing.T) {
	t.Run("Pending", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("ListRetailers", mock.Anything, true).Return([]models.User{
			{UserId: "user-1", Mobile: "9876543210", Role: models.RoleRetailer, IsActive: true},
		}, nil)

		h := users.NewUsersHandler(accounts)
		rr := httptest.NewRecorder()
		h.ListRetailers(rr, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/retailers?pending=true", nil)))

		require.Equal(t, http.StatusOK, rr.Code)
		var got []api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "user-1", got[0].Id)
		assert.False(t, got[0].Verified)
		assert.True(t, got[0].IsActive)
	})

	t.Run("All", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("ListRetailers", mock.Anything, false).Return([]models.User{}, nil)

		h := users.NewUsersHandler(accounts)
		rr := httptest.NewRecorder()
		h.ListRetailers(rr, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/retailers", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Bad Flag", func(t *testing.T) {
		h := users.NewUsersHandler(mocks.NewAccounts(t))
		rr := httptest.NewRecorder()
		h.ListRetailers(rr, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/retailers?pending=maybe", nil)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListAdmins(t *testing.T) {
	accounts := mocks.NewAccounts(t)
	accounts.On("ListAdmins", mock.Anything).Return([]models.User{{UserId: "admin-1", Role: models.RoleAdmin, Verified: true}}, nil)

	h := users.NewUsersHandler(accounts)
	rr := httptest.NewRecorder()
	h.ListAdmins(rr, asAdmin(httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/admins", nil)))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []api.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "admin", got[0].Role)
}

func TestVerifyRetailer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("VerifyRetailer", mock.Anything, "admin-1", "user-1", true).
			Return(&models.User{UserId: "user-1", Role: models.RoleRetailer, Verified: true, IsActive: true}, nil)

		h := users.NewUsersHandler(accounts)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-1/verify", strings.NewReader(`{"verified":true}`))
		rr := httptest.NewRecorder()
		h.VerifyRetailer(rr, asAdmin(req), "user-1")

		require.Equal(t, http.StatusOK, rr.Code)
		var got api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.True(t, got.Verified)
	})

	t.Run("Withdraw", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("VerifyRetailer", mock.Anything, "admin-1", "user-1", false).
			Return(&models.User{UserId: "user-1", Role: models.RoleRetailer}, nil)

		h := users.NewUsersHandler(accounts)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-1/verify", strings.NewReader(`{"verified":false}`))
		rr := httptest.NewRecorder()
		h.VerifyRetailer(rr, asAdmin(req), "user-1")

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing Flag", func(t *testing.T) {
		h := users.NewUsersHandler(mocks.NewAccounts(t))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/user-1/verify", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		h.VerifyRetailer(rr, asAdmin(req), "user-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown User", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("VerifyRetailer", mock.Anything, "admin-1", "missing", true).Return(nil, apperr.NotFound("user not found"))

		h := users.NewUsersHandler(accounts)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/missing/verify", strings.NewReader(`{"verified":true}`))
		rr := httptest.NewRecorder()
		h.VerifyRetailer(rr, asAdmin(req), "missing")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("Deactivate", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("SetActive", mock.Anything, "admin-1", "user-1", false).
			Return(&models.User{UserId: "user-1", Role: models.RoleRetailer, Verified: true}, nil)

		h := users.NewUsersHandler(accounts)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/user-1/status", strings.NewReader(`{"isActive":false}`))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, asAdmin(req), "user-1")

		require.Equal(t, http.StatusOK, rr.Code)
		var got api.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.False(t, got.IsActive)
	})

	t.Run("Self", func(t *testing.T) {
		accounts := mocks.NewAccounts(t)
		accounts.On("SetActive", mock.Anything, "admin-1", "admin-1", false).
			Return(nil, apperr.Validation("you cannot deactivate your own account"))

		h := users.NewUsersHandler(accounts)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/admin-1/status", strings.NewReader(`{"isActive":false}`))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, asAdmin(req), "admin-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		h := users.NewUsersHandler(mocks.NewAccounts(t))
		req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/user-1/status", strings.NewReader(`{"isActive":true}`))
		rr := httptest.NewRecorder()
		h.UpdateStatus(rr, req, "user-1")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
