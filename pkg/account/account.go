// Package account registers retailers and signs users in. Both flows are
// gated by a one-time code delivered to the user's mobile number; login also
// requires the password.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/otp"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72

	countryCode = "+91"
	// mobileRule accepts exactly ten ASCII digits. The numeric tag is not used
	// since it also admits a sign and a decimal point.
	mobileRule = "required,number,len=10"
)

var validate = validator.New()

// OTP issues and checks one-time codes.
type OTP interface {
	Send(ctx context.Context, subject string, purpose models.OtpPurpose, guard otp.Guard) (*otp.Issued, error)
	Resend(ctx context.Context, subject string, purpose models.OtpPurpose, guard otp.Guard) (*otp.Issued, error)
	Verify(ctx context.Context, subject string, purpose models.OtpPurpose, code string) error
}

// Wallets builds the wallet that is created together with a retailer account.
type Wallets interface {
	NewWallet(userID string) *models.Wallet
}

// Session is a signed-in user.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// RegisterInput is a retailer sign-up, confirmed by the register code.
type RegisterInput struct {
	Mobile   string
	Name     string
	Email    string
	Password string
	Code     string
}

// Service implements registration and login.
type Service struct {
	store    storage.AccountStore
	otp      OTP
	wallets  Wallets
	tokens   *TokenIssuer
	hashCost int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHashCost sets the bcrypt cost of password hashes.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

// WithClock sets the clock used to stamp new accounts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a Service.
func New(store storage.AccountStore, codes OTP, wallets Wallets, tokens *TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		otp:      codes,
		wallets:  wallets,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeMobile strips spaces, dashes and the country code and checks that
// a ten digit number remains.
func NormalizeMobile(mobile string) (string, error) {
	m := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(mobile))
	m = strings.TrimPrefix(m, countryCode)
	if err := validate.Var(m, mobileRule); err != nil {
		return "", apperr.Validation("invalid mobile number", "mobile must be 10 digits")
	}
	return m, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailFree fails with ErrEmailTaken when another account uses email.
func (s *Service) emailFree(ctx context.Context, email string) error {
	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return apperr.ErrEmailTaken
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up email: %w", err)
	}
}

// notRegistered is the guard of register codes.
func (s *Service) notRegistered(ctx context.Context, mobile string, _ models.OtpPurpose) error {
	_, err := s.store.GetUserByMobile(ctx, mobile)
	switch {
	case err == nil:
		return apperr.ErrAlreadyRegistered
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}
}

func (s *Service) guardFor(purpose models.OtpPurpose) otp.Guard {
	if purpose == models.PurposeRegister {
		return s.notRegistered
	}
	return nil
}

// SendOTP delivers a code for purpose. Register codes are refused for numbers
// that already have an account.
func (s *Service) SendOTP(ctx context.Context, mobile string, purpose models.OtpPurpose) (*otp.Issued, error) {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	return s.otp.Send(ctx, m, purpose, s.guardFor(purpose))
}

// ResendOTP re-delivers a code, subject to the same checks as SendOTP.
func (s *Service) ResendOTP(ctx context.Context, mobile string, purpose models.OtpPurpose) (*otp.Issued, error) {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	return s.otp.Resend(ctx, m, purpose, s.guardFor(purpose))
}

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return "", apperr.Validation("invalid password").WithDetails("password must be %d to %d characters", minPasswordLength, maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// newUser builds an active account. Only administrators start out verified.
func (s *Service) newUser(mobile, name, email, hash string, role models.Role) *models.User {
	return &models.User{
		UserId:       uuid.NewString(),
		Mobile:       mobile,
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Verified:     role == models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
}

// Register consumes the register code and creates the retailer together with
// an empty wallet. The retailer can sign in once an administrator verified it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	mobile, err := NormalizeMobile(in.Mobile)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, apperr.Validation("name and email are required")
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.notRegistered(ctx, mobile, models.PurposeRegister); err != nil {
		return nil, err
	}
	if err := s.emailFree(ctx, normalizeEmail(in.Email)); err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, mobile, models.PurposeRegister, in.Code); err != nil {
		return nil, err
	}

	user := s.newUser(mobile, in.Name, in.Email, hash, models.RoleRetailer)
	err = s.store.CreateAccount(ctx, user, s.wallets.NewWallet(user.UserId))
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, apperr.ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "retailer registered", "user_id", user.UserId)
	return user, nil
}

// authenticate looks the user up and checks role, password and standing.
// Unknown numbers and wrong passwords are indistinguishable to the caller.
func (s *Service) authenticate(ctx context.Context, mobile, password string, role models.Role) (*models.User, error) {
	user, err := s.lookup(ctx, mobile, role)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := standing(user); err != nil {
		return nil, err
	}
	return user, nil
}

// standing refuses disabled accounts and retailers not yet verified.
func standing(user *models.User) error {
	if !user.IsActive {
		return apperr.ErrAccountDisabled
	}
	if user.Role == models.RoleRetailer && !user.Verified {
		return apperr.ErrNotVerified
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, mobile string, role models.Role) (*models.User, error) {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	user, err := s.store.GetUserByMobile(ctx, m)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Role != role {
		return nil, apperr.Forbidden(fmt.Sprintf("%s login required", role))
	}
	return user, nil
}

// StartLogin checks the password and sends a login code.
func (s *Service) StartLogin(ctx context.Context, mobile, password string, role models.Role) (*otp.Issued, error) {
	user, err := s.authenticate(ctx, mobile, password, role)
	if err != nil {
		return nil, err
	}
	return s.otp.Send(ctx, user.Mobile, models.PurposeLogin, nil)
}

// CompleteLogin consumes the login code and opens a session.
func (s *Service) CompleteLogin(ctx context.Context, mobile, code string, role models.Role) (*Session, error) {
	user, err := s.lookup(ctx, mobile, role)
	if err != nil {
		return nil, err
	}
	if err := standing(user); err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, user.Mobile, models.PurposeLogin, code); err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal("failed to issue session", err)
	}
	s.logger.InfoContext(ctx, "user signed in", "user_id", user.UserId, "role", user.Role)
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// CreateAdmin creates an administrator account. Administrators have no wallet.
func (s *Service) CreateAdmin(ctx context.Context, mobile, name, email, password string) (*models.User, error) {
	m, err := NormalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.emailFree(ctx, normalizeEmail(email)); err != nil {
		return nil, err
	}

	user := s.newUser(m, name, email, hash, models.RoleAdmin)
	err = s.store.CreateAccount(ctx, user, nil)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, apperr.ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return user, nil
}
