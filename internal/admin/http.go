// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfare-app/wayfare/internal/audit"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/middleware"
	requestutil "github.com/wayfare-app/wayfare/internal/platform/request"
	"github.com/wayfare-app/wayfare/internal/platform/respond"
	"github.com/wayfare-app/wayfare/internal/platform/validate"
	"github.com/wayfare-app/wayfare/internal/rbac"
)

// Handler implements the administrator HTTP endpoints.
type Handler struct {
	service  *Service
	recorder *audit.Recorder
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, recorder *audit.Recorder) *Handler {
	return &Handler{service: service, recorder: recorder}
}

// Routes returns a [chi.Router] with the admin route table.
//
// The table is the single source of truth for which gate protects which
// endpoint: login stays outside both gates, session endpoints sit behind
// authentication only, and console endpoints declare their permission
// requirement explicitly.
//
// # Endpoints
//   - POST /login                      : Authenticates and returns a JWT (public).
//   - POST /logout                     : Revokes the presented token.
//   - GET  /me                         : Returns the caller's profile.
//   - GET  /roles                      : Lists roles (any admin).
//   - GET  /permissions                : Lists permissions (any admin).
//   - POST /admins/{adminID}/roles     : Assigns roles (requires ADMIN:EDIT).
//   - POST /roles/{roleID}/permissions : Binds permissions (requires ROLE:EDIT).
func (handler *Handler) Routes(gates middleware.Gates) chi.Router {
	router := chi.NewRouter()

	// Public entry point: no token exists before login succeeds.
	router.Post("/login", handler.login)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(gates.Authenticate)

		authenticated.Post("/logout", handler.logout)
		authenticated.Get("/me", handler.profile)

		authenticated.With(gates.Require(rbac.AdminOnly)).
			Get("/roles", handler.listRoles)
		authenticated.With(gates.Require(rbac.AdminOnly)).
			Get("/permissions", handler.listPermissions)

		authenticated.With(gates.Require(rbac.Requirement{Codes: []string{rbac.PermAdminEdit}, RequireAll: true})).
			Post("/admins/{adminID}/roles", handler.assignRoles)
		authenticated.With(gates.Require(rbac.Requirement{Codes: []string{rbac.PermRoleEdit}, RequireAll: true})).
			Post("/roles/{roleID}/permissions", handler.bindPermissions)
	})

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// login handles POST /api/admin/login requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 200 OK on success with the access token and profile.
//   - Writes HTTP 401 Unauthorized for bad credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Username == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("username/password", "are required"))
		return
	}

	// ── 3. Application Execution (audited) ────────────────────────────────

	result, err := audit.Do(request.Context(), handler.recorder,
		audit.Descriptor{Type: "LOGIN", Object: "Admin"}, nil,
		func(ctx context.Context) (*LoginResult, error) {
			return handler.service.Login(ctx, LoginInput{
				Username:   input.Username,
				Password:   input.Password,
				RememberMe: input.RememberMe,
				SourceIP:   ctxutil.GetClientIP(ctx),
			})
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, result)
}

// logout handles POST /api/admin/logout requests.
//
// The token to revoke is the one that passed the authentication gate; no
// payload is accepted. Logout is idempotent.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	accessToken := ctxutil.GetAccessToken(request.Context())

	_, err := audit.Do(request.Context(), handler.recorder,
		audit.Descriptor{Type: "LOGOUT", Object: "Admin"}, nil,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, handler.service.Logout(ctx, accessToken)
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil)
}

// profile handles GET /api/admin/me requests.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	adminID, err := requestutil.RequiredSubjectID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.Profile(request.Context(), adminID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// listRoles handles GET /api/admin/roles requests.
func (handler *Handler) listRoles(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.service.ListRoles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if roles == nil {
		roles = []rbac.Role{}
	}
	respond.OK(writer, roles)
}

// listPermissions handles GET /api/admin/permissions requests.
func (handler *Handler) listPermissions(writer http.ResponseWriter, request *http.Request) {
	permissions, err := handler.service.ListPermissions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if permissions == nil {
		permissions = []rbac.Permission{}
	}
	respond.OK(writer, permissions)
}

// idListRequest represents the JSON payload for grant endpoints.
type idListRequest struct {
	IDs []int64 `json:"ids"`
}

// assignRoles handles POST /api/admin/admins/{adminID}/roles requests.
//
// # Returns
//   - Writes HTTP 200 OK when the grants are applied (idempotent).
//   - Writes HTTP 404 Not Found for an unknown target admin.
func (handler *Handler) assignRoles(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Path & Payload Extraction ──────────────────────────────────────

	adminID, err := requestutil.IntParam(request, "adminID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input idListRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if len(input.IDs) == 0 {
		respond.Error(writer, request, validate.RequiredError("ids", "must not be empty"))
		return
	}

	// ── 2. Application Execution (audited) ────────────────────────────────

	_, err = audit.Do(request.Context(), handler.recorder,
		audit.Descriptor{Type: "GRANT", Object: "Role"}, []any{adminID},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, handler.service.AssignRoles(ctx, adminID, input.IDs)
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil)
}

// bindPermissions handles POST /api/admin/roles/{roleID}/permissions requests.
func (handler *Handler) bindPermissions(writer http.ResponseWriter, request *http.Request) {
	roleID, err := requestutil.IntParam(request, "roleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input idListRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if len(input.IDs) == 0 {
		respond.Error(writer, request, validate.RequiredError("ids", "must not be empty"))
		return
	}

	_, err = audit.Do(request.Context(), handler.recorder,
		audit.Descriptor{Type: "GRANT", Object: "Permission"}, []any{roleID},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, handler.service.BindPermissions(ctx, roleID, input.IDs)
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil)
}
