// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package audit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfare-app/wayfare/internal/platform/middleware"
	"github.com/wayfare-app/wayfare/internal/platform/respond"
	"github.com/wayfare-app/wayfare/internal/rbac"
	"github.com/wayfare-app/wayfare/pkg/pagination"
)

// Lister is the read side of the operation log used by the HTTP layer.
type Lister interface {
	List(ctx context.Context, filter Filter, params pagination.Params) ([]Entry, int, error)
}

// Handler implements the operation-log query endpoint.
type Handler struct {
	store Lister
}

// NewHandler constructs a new [Handler] with its store dependency.
func NewHandler(store Lister) *Handler {
	return &Handler{store: store}
}

// Routes returns a [chi.Router] with the log endpoints behind both gates.
// It is mounted under /api/admin/logs.
//
// # Endpoints
//   - GET / : Lists operation-log entries (requires LOG:VIEW).
func (handler *Handler) Routes(gates middleware.Gates) chi.Router {
	router := chi.NewRouter()
	router.Use(gates.Authenticate)

	router.With(gates.Require(rbac.Requirement{Codes: []string{rbac.PermLogView}})).
		Get("/", handler.list)

	return router
}

// list handles GET /api/admin/logs requests.
//
// # Parameters
//   - writer: The HTTP response constructor.
//   - request: The incoming HTTP request payload.
//
// # Returns
//   - Writes HTTP 200 OK with a paginated entry list, newest first.
//   - Optional query filters: actor_id, action_type, action_object, page, limit.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Query Extraction ───────────────────────────────────────────────

	params := pagination.FromRequest(request)

	var filter Filter
	if raw := request.URL.Query().Get("actor_id"); raw != "" {
		if actorID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ActorID = actorID
		}
	}
	filter.ActionType = request.URL.Query().Get("action_type")
	filter.ActionObject = request.URL.Query().Get("action_object")

	// ── 2. Application Execution ──────────────────────────────────────────

	entries, total, err := handler.store.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────

	if entries == nil {
		entries = []Entry{}
	}
	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}
