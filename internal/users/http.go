// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer/internal/platform/constants"
	"github.com/wayfarer-travel/wayfarer/internal/platform/middleware"
	requestutil "github.com/wayfarer-travel/wayfarer/internal/platform/request"
	"github.com/wayfarer-travel/wayfarer/internal/platform/respond"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/internal/platform/validate"
	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the account and authentication HTTP endpoints.
type Handler struct {
	service *Service
	guard   *middleware.Guard
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] with the full account surface.
//
// # Endpoints
//   - POST  /signup                : Creates an account and starts a session.
//   - POST  /login                 : Authenticates and returns a session token.
//   - POST  /forgotPassword        : Emails a single-use reset token.
//   - PATCH /resetPassword/{token} : Sets a new password via reset token.
//   - GET   /me                    : Returns the caller's profile.
//   - PATCH /updateMyPassword      : Rotates the caller's password.
//   - PATCH /updateMe              : Updates the caller's profile data.
//   - DELETE /deleteMe             : Deactivates the caller's account.
//   - GET   /                      : Admin listing of accounts.
//   - GET   /{id}                  : Admin lookup of one account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/forgotPassword", handler.forgotPassword)
	router.Patch("/resetPassword/{token}", handler.resetPassword)

	// Self-service endpoints, session required
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.Authenticate)

		r.Get("/me", handler.me)
		r.Patch("/updateMyPassword", handler.updateMyPassword)
		r.Patch("/updateMe", handler.updateMe)
		r.Delete("/deleteMe", handler.deleteMe)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(handler.guard.Authenticate)
		r.Use(handler.guard.RequireRoles(sec.RoleAdmin))

		r.Get("/", handler.listAccounts)
		r.Get("/{id}", handler.getAccount)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"password_current"`
	Password        string `json:"password"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Photo *string `json:"photo"`

	// Caught only to produce a helpful rejection.
	Password *string `json:"password"`
}

// # Authentication Endpoints

/*
signup creates a new account and logs it in.

POST /api/v1/users/signup

Response:
  - 201: Session token and created profile
  - 400: Validation failure
  - 409: Email already registered (deactivated accounts included)
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     sec.Role(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token)
	respond.Created(writer, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

/*
login authenticates an account and establishes a session.

POST /api/v1/users/login

Response:
  - 200: Session token and profile
  - 401: Incorrect email or password (single generic message)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token)
	respond.OK(writer, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

// # Password Recovery Endpoints

/*
forgotPassword mints a reset ticket and emails its plaintext token.

POST /api/v1/users/forgotPassword

Response:
  - 200: Confirmation message (token travels only by email)
  - 404: No account with that email
  - 500: Email delivery failed; ticket rolled back
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError(FieldEmail, "This field is required"))
		return
	}

	if err := handler.service.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": "Token sent to email",
	})
}

/*
resetPassword consumes a reset token and sets a new password.

PATCH /api/v1/users/resetPassword/{token}

Response:
  - 200: Fresh session token and profile
  - 400: Token invalid or expired, or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	plainToken := requestutil.Param(request, "token")

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, plainToken).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.ResetPassword(request.Context(), plainToken, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token)
	respond.OK(writer, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

/*
updateMyPassword rotates the password of the logged-in account.

PATCH /api/v1/users/updateMyPassword

Response:
  - 200: Fresh session token and profile
  - 401: Current password is wrong
*/
func (handler *Handler) updateMyPassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPasswordCurrent, input.PasswordCurrent).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.ChangePassword(request.Context(), principal.ID, input.PasswordCurrent, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token)
	respond.OK(writer, map[string]any{
		"token": session.Token,
		"user":  session.User,
	})
}

// # Profile Endpoints

// me returns the logged-in account's own profile.
//
// GET /api/v1/users/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Profile(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
updateMe applies partial profile changes to the logged-in account.

PATCH /api/v1/users/updateMe

Password fields are explicitly rejected here so the credential can only
move through the dedicated, verified password routes.

Response:
  - 200: Updated profile
  - 400: Password field present, or validation failure
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password != nil {
		respond.Error(writer, request, validate.RequiredError(FieldPassword,
			"This route is not for password updates. Please use /updateMyPassword"))
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 100)
	}
	if input.Email != nil {
		validator.Email(FieldEmail, *input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), principal.ID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
		Photo: input.Photo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// deleteMe deactivates the logged-in account and clears its session cookie.
//
// DELETE /api/v1/users/deleteMe
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), principal.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookie(writer)
	respond.NoContent(writer)
}

// # Admin Endpoints

// listAccounts returns a page of active accounts.
//
// GET /api/v1/users
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromValues(request.URL.Query())

	accounts, total, err := handler.service.ListAccounts(request.Context(), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, accounts, len(accounts), pagination.NewMeta(page.Page, page.Limit, total))
}

// getAccount returns one active account by id.
//
// GET /api/v1/users/{id}
func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetAccount(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Session Cookie Helpers

// setSessionCookie mirrors the session token into an HttpOnly cookie so
// browser clients get the token without exposing it to scripts.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  time.Now().Add(handler.service.tokens.TTL()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
