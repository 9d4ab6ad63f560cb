// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/internal/platform/sec"
	"github.com/memry/photobook/internal/platform/validate"
	"github.com/memry/photobook/pkg/uuid"
)

// # Contracts

// TokenIssuer signs console tokens. [sec.TokenService] satisfies it.
type TokenIssuer interface {
	GenerateAdminToken(adminID, email, sessionID, role string, timeToLive time.Duration) (string, time.Time, error)
}

// Service implements the console authentication use cases.
type Service struct {
	repo       Repository
	sessions   SessionStore
	tokens     TokenIssuer
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService constructs a new admin [Service].
func NewService(repo Repository, sessions SessionStore, tokens TokenIssuer, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

const (
	errInvalidCredentials = "Invalid email or password"
	passwordTooLong       = "Maximum 72 bytes"
)

// decoyHash is compared against when the email is unknown, so both failure
// paths cost one bcrypt comparison.
var decoyHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword("memry-decoy-password")
	return hash
})

// # Setup

// HasAdmin reports whether the setup step has been completed.
func (service *Service) HasAdmin(context context.Context) (bool, error) {
	return service.repo.Exists(context)
}

/*
Bootstrap creates the first admin account.

Description: Only allowed while no admin exists. The email is trimmed and
lower-cased before it is stored.

Parameters:
  - context: context.Context
  - email: string
  - password: string (at least 6 characters)

Returns:
  - *Account: The created admin
  - error: ValidationError, or Conflict when an admin already exists
*/
func (service *Service) Bootstrap(context context.Context, email, password string) (*Account, error) {
	email = normalizeEmail(email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength).
		Custom(FieldPassword, len(password) > MaxPasswordBytes, passwordTooLong)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}

	inserted, err := service.repo.InsertFirst(context, account)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, apperr.Conflict("An admin already exists. Please log in instead.")
	}

	service.logger.Info("admin_bootstrapped", slog.String("admin_id", account.ID))
	return account, nil
}

// # Sessions

/*
Login checks the credentials and opens a console session.

Description: Unknown emails and wrong passwords fail with the same message.
The session record lives as long as the token.

Returns:
  - *LoginResult: Signed token, expiry and the account
  - error: Unauthorized on bad credentials
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	account, err := service.repo.FindByEmail(context, email)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		sec.CheckPasswordHash(password, decoyHash())
		return nil, apperr.Unauthorized(errInvalidCredentials)
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		service.logger.Warn("admin_login_failed", slog.String("admin_id", account.ID))
		return nil, apperr.Unauthorized(errInvalidCredentials)
	}

	sessionID := uuid.New()
	token, expiresAt, err := service.tokens.GenerateAdminToken(account.ID, account.Email, sessionID, constants.RoleAdmin, service.sessionTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	session := &Session{
		ID:        sessionID,
		AdminID:   account.ID,
		Email:     account.Email,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	if err := service.sessions.Create(context, session, service.sessionTTL); err != nil {
		return nil, err
	}

	service.logger.Info("admin_logged_in",
		slog.String("admin_id", account.ID),
		slog.String("session_id", sessionID),
	)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: account}, nil
}

// VerifySession returns the live session, Unauthorized once it was revoked or expired.
func (service *Service) VerifySession(context context.Context, sessionID string) (*Session, error) {
	return service.sessions.Get(context, sessionID)
}

// Logout revokes the session. Repeating it is harmless.
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := service.sessions.Delete(context, sessionID); err != nil {
		return err
	}
	service.logger.Info("admin_logged_out", slog.String("session_id", sessionID))
	return nil
}

// # Account

// GetByID returns an admin account.
func (service *Service) GetByID(context context.Context, id string) (*Account, error) {
	return service.repo.FindByID(context, id)
}

// Me returns the account behind a verified session.
func (service *Service) Me(context context.Context, claims *sec.AdminClaims) (*Account, error) {
	if _, err := service.VerifySession(context, claims.SessionID); err != nil {
		return nil, err
	}
	return service.GetByID(context, claims.AdminID)
}

/*
ChangePassword replaces the password after checking the current one.

Description: Every other session of the admin is revoked. The calling
session stays valid.

Returns:
  - error: ValidationError, Unauthorized on a wrong current password
*/
func (service *Service) ChangePassword(context context.Context, claims *sec.AdminClaims, currentPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, currentPassword).
		Required(FieldNewPassword, newPassword).
		MinLen(FieldNewPassword, newPassword, MinPasswordLength).
		Custom(FieldNewPassword, len(newPassword) > MaxPasswordBytes, passwordTooLong)
	if err := validator.Err(); err != nil {
		return err
	}

	account, err := service.repo.FindByID(context, claims.AdminID)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(currentPassword, account.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := service.repo.UpdatePassword(context, account.ID, hash); err != nil {
		return err
	}

	revoked, err := service.sessions.DeleteOthers(context, account.ID, claims.SessionID)
	if err != nil {
		return fmt.Errorf("admin_service_revoke_sessions_failed: %w", err)
	}

	service.logger.Info("admin_password_changed",
		slog.String("admin_id", account.ID),
		slog.Int("revoked_sessions", revoked),
	)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsSessionActive implements middleware.SessionChecker for the console routes.
func (service *Service) IsSessionActive(context context.Context, sessionID string) (bool, error) {
	return service.sessions.IsSessionActive(context, sessionID)
}
