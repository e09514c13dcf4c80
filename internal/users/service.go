// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

/*
Package users implements the account and identity system.

It handles everything from signup and secure password hashing to the session
lifecycle (stateless JWT) and the email-driven password recovery flow.

Architecture:

  - Service: Orchestrates business logic (Signup, Login, Recovery).
  - Repository: Abstracted persistence for PostgreSQL account rows.
  - Security: Leverages bcrypt hashing and HS256-signed session tokens.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for the given account.
	Issue(userID string) (string, error)
	// TTL returns the configured token lifetime.
	TTL() time.Duration
}

// Mailer delivers transactional plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service implements account and authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, signup,
// or recovery logic must be reviewed carefully.
type Service struct {
	repository Repository
	tokens     TokenIssuer
	mailer     Mailer
	logger     *slog.Logger
	bcryptCost int
	baseURL    string
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(
	repository Repository,
	tokens TokenIssuer,
	mailer Mailer,
	logger *slog.Logger,
	bcryptCost int,
	baseURL string,
) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
		bcryptCost: bcryptCost,
		baseURL:    baseURL,
	}
}

// Session pairs an account with a freshly issued token.
type Session struct {
	Token string
	User  *User
}

// # Registration Flow

// SignupInput holds the data required to enroll a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     sec.Role // empty defaults to tourist; admin cannot be self-assigned
}

/*
Signup validates, hashes, and persists a brand new account, returning an
immediately usable session.

The uniqueness probe deliberately includes deactivated accounts: a
soft-deleted email stays reserved, so re-registration over it yields a
Conflict rather than silently resurrecting old data.
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*Session, error) {

	// Email uniqueness across ALL accounts, deactivated ones included.
	_, err := service.repository.FindByEmailAnyStatus(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	role := input.Role
	if role == "" {
		role = sec.RoleTourist
	}
	if !role.Valid() || role == sec.RoleAdmin {
		return nil, apperr.ValidationError("Invalid account role")
	}

	hashedPassword, err := sec.HashPassword(input.Password, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		Active:       true,
	}

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("users_service_signup_failed: %w", err)
	}

	token, err := service.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users_service_token_issue_failed: %w", err)
	}

	service.logger.Info("user_signed_up", slog.String("user_id", user.ID))
	return &Session{Token: token, User: user}, nil
}

// # Authentication Flow

/*
Login validates credentials and issues a session token.

Unknown email and wrong password return the same generic message to
prevent account enumeration.
*/
func (service *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := service.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	// Constant-time comparison inside bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	token, err := service.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users_service_token_issue_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return &Session{Token: token, User: user}, nil
}

// Principal loads the live identity behind a verified token. It implements
// the access-control chain's account lookup, so deactivated accounts fail it.
func (service *Service) Principal(ctx context.Context, userID string) (*sec.Principal, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

// # Profile Management

// Profile returns the caller's own account.
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return service.repository.FindByID(ctx, userID)
}

// UpdateProfileInput carries the self-service mutable fields. Nil means
// "leave unchanged".
type UpdateProfileInput struct {
	Name  *string
	Email *string
	Photo *string
}

// UpdateProfile applies partial profile changes to the caller's account.
// Password material is structurally unreachable from this path.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := service.repository.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

// Deactivate soft-deletes the caller's account. The row survives for audit
// and uniqueness purposes but disappears from every authenticated lookup,
// which also invalidates any outstanding session tokens on their next use.
func (service *Service) Deactivate(ctx context.Context, userID string) error {
	if err := service.repository.Deactivate(ctx, userID); err != nil {
		return err
	}

	service.logger.Warn("user_deactivated", slog.String("user_id", userID))
	return nil
}

// # Password Lifecycle

/*
ChangePassword rotates the caller's password after verifying the current one,
then issues a fresh session so the caller is not logged out by their own
change.

The recorded change instant is backdated by one second; tokens issued at or
before the change fail the staleness check while the fresh token stays valid.
*/
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*Session, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return nil, apperr.Unauthorized("Your current password is wrong")
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	changedAt := sec.BackdatedChangeTime(time.Now())
	if err := service.repository.UpdatePassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return nil, err
	}

	token, err := service.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users_service_token_issue_failed: %w", err)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", user.ID))
	return &Session{Token: token, User: user}, nil
}

/*
RequestPasswordReset starts the forgot-password flow: it mints a single-use
reset ticket, stores only its hash, and emails the plaintext token.

Ticket persistence and email delivery succeed or fail together. If the
email cannot be sent the stored ticket is rolled back, so no orphaned
ticket ever accumulates on the account.
*/
func (service *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := service.repository.FindByEmail(ctx, email)
	if err != nil {
		return apperr.NotFound("There is no user with that email address")
	}

	ticket, err := sec.NewResetTicket()
	if err != nil {
		return fmt.Errorf("users_service_reset_ticket_failed: %w", err)
	}

	if err := service.repository.SetResetTicket(ctx, user.ID, ticket.Hash, ticket.ExpiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", service.baseURL, ticket.Plain)
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password to: %s\n"+
			"If you didn't forget your password, please ignore this email. "+
			"The link is valid for 10 minutes.",
		resetURL,
	)

	if err := service.mailer.Send(ctx, user.Email, "Your password reset token (valid for 10 min)", body); err != nil {
		// Roll back so the account is not left with a ticket nobody received.
		_ = service.repository.ClearResetTicket(ctx, user.ID)
		return apperr.Internal(fmt.Errorf("users_service_reset_email_failed: %w", err))
	}

	service.logger.Info("password_reset_requested", slog.String("user_id", user.ID))
	return nil
}

/*
ResetPassword completes the forgot-password flow.

The presented plaintext token is re-hashed and looked up together with its
expiry, so an expired or unknown ticket is indistinguishable from no ticket
at all. On success the ticket is consumed and a fresh session is issued.
*/
func (service *Service) ResetPassword(ctx context.Context, plainToken, newPassword string) (*Session, error) {
	user, err := service.repository.FindByResetTokenHash(ctx, sec.HashResetToken(plainToken), time.Now())
	if err != nil {
		return nil, apperr.ValidationError("Token is invalid or has expired")
	}

	hashedPassword, err := sec.HashPassword(newPassword, service.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	// UpdatePassword clears the ticket in the same statement, making it single-use.
	changedAt := sec.BackdatedChangeTime(time.Now())
	if err := service.repository.UpdatePassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return nil, err
	}

	token, err := service.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("users_service_token_issue_failed: %w", err)
	}

	service.logger.Info("user_password_reset", slog.String("user_id", user.ID))
	return &Session{Token: token, User: user}, nil
}

// # Administration

// ListAccounts returns a page of active accounts for the admin console.
func (service *Service) ListAccounts(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return service.repository.List(ctx, limit, offset)
}

// GetAccount returns a single active account by id.
func (service *Service) GetAccount(ctx context.Context, id string) (*User, error) {
	return service.repository.FindByID(ctx, id)
}
