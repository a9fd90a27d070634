package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/mapping"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/otp"
	"github.com/chris/retailer-services/pkg/respond"
)

// Accounts is the account service the auth handlers drive.
type Accounts interface {
	SendOTP(ctx context.Context, mobile string, purpose models.OtpPurpose) (*otp.Issued, error)
	ResendOTP(ctx context.Context, mobile string, purpose models.OtpPurpose) (*otp.Issued, error)
	Register(ctx context.Context, in account.RegisterInput) (*models.User, error)
	StartLogin(ctx context.Context, mobile, password string, role models.Role) (*otp.Issued, error)
	CompleteLogin(ctx context.Context, mobile, code string, role models.Role) (*account.Session, error)
}

// AuthHandler holds the dependencies for the sign-up and sign-in handlers.
type AuthHandler struct {
	Accounts     Accounts
	SecureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts Accounts, secureCookie bool) *AuthHandler {
	return &AuthHandler{Accounts: accounts, SecureCookie: secureCookie}
}

func issued(message string, in *otp.Issued) *api.OtpIssued {
	return &api.OtpIssued{
		Message:          message,
		ExpiresAt:        in.ExpiresAt,
		ResendCount:      in.ResendCount,
		RemainingResends: in.RemainingResends,
	}
}

// SendOtp delivers a register or login code.
func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req api.SendOtpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	out, err := h.Accounts.SendOTP(r.Context(), req.Mobile, models.OtpPurpose(req.Purpose))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, issued("code sent", out))
}

// ResendOtp re-delivers a code within the resend budget.
func (h *AuthHandler) ResendOtp(w http.ResponseWriter, r *http.Request) {
	var req api.SendOtpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	out, err := h.Accounts.ResendOTP(r.Context(), req.Mobile, models.OtpPurpose(req.Purpose))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, issued("code resent", out))
}

// Register creates a retailer account from a verified register code.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.Accounts.Register(r.Context(), account.RegisterInput{
		Mobile:   req.Mobile,
		Name:     req.Name,
		Email:    string(req.Email),
		Password: req.Password,
		Code:     req.Otp,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiUser(user))
}

// Login checks a retailer's password and sends a login code.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.startLogin(w, r, models.RoleRetailer)
}

// VerifyLogin opens a retailer session.
func (h *AuthHandler) VerifyLogin(w http.ResponseWriter, r *http.Request) {
	h.completeLogin(w, r, models.RoleRetailer)
}

// AdminLogin checks an administrator's password and sends a login code.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.startLogin(w, r, models.RoleAdmin)
}

// AdminVerifyLogin opens an administrator session.
func (h *AuthHandler) AdminVerifyLogin(w http.ResponseWriter, r *http.Request) {
	h.completeLogin(w, r, models.RoleAdmin)
}

func (h *AuthHandler) startLogin(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req api.LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	out, err := h.Accounts.StartLogin(r.Context(), req.Mobile, req.Password, role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, issued("login code sent", out))
}

func (h *AuthHandler) completeLogin(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req api.VerifyLoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.Accounts.CompleteLogin(r.Context(), req.Mobile, req.Otp, role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.setCookie(w, session.Token, session.ExpiresAt)
	respond.JSON(w, http.StatusOK, &api.Session{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      *mapping.ToApiUser(session.User),
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, "", time.Unix(0, 0))
	respond.JSON(w, http.StatusOK, &api.Message{Message: "logged out"})
}

// Me returns the signed-in principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}
	respond.JSON(w, http.StatusOK, &api.User{
		Id:     claims.UserID,
		Mobile: claims.Mobile,
		Name:   claims.Name,
		Role:   string(claims.Role),
	})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
