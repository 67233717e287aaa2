// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/invitation/internal/platform/middleware"
	requestutil "github.com/taibuivan/invitation/internal/platform/request"
	"github.com/taibuivan/invitation/internal/platform/respond"
	"github.com/taibuivan/invitation/internal/platform/sec"
)

// Handler implements the HTTP layer for account operations.
type Handler struct {
	service  *Service
	resolver *Resolver
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, resolver *Resolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Security
//
// Resolution is public. Approval and teardown are operator-only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/resolve", handler.resolve)

	router.Group(func(operator chi.Router) {
		operator.Use(middleware.RequireRole(sec.RoleAdmin))
		operator.Post("/accounts/{id}/approve", handler.approve)
		operator.Delete("/accounts/{id}", handler.teardown)
	})

	return router
}

type resolveResponse struct {
	PageID string `json:"pageId"`
}

/*
GET /api/v1/resolve?userUrl=&date=.

Description: Maps a public handle (and optional YYMMDD date) to a page id.

Response:
  - 200: {pageId}
  - 400: Missing or malformed handle or date
  - 404: No account matches
*/
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	pageID, err := handler.resolver.Resolve(
		request.Context(),
		requestutil.Query(request, "userUrl"),
		requestutil.Query(request, "date"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolveResponse{PageID: pageID})
}

/*
POST /api/v1/accounts/{id}/approve.

Description: Approves an account, binds a page and seeds its wedding fields.

Response:
  - 200: ApprovalResult
  - 403: Caller is not an operator
  - 404: Unknown account
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Approve(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
DELETE /api/v1/accounts/{id}.

Description: Deletes an account with its page settings and lists. Step
failures are logged server-side; the caller always sees a success.

Response:
  - 200: TeardownResult
  - 403: Caller is not an operator
  - 404: Unknown account
*/
func (handler *Handler) teardown(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Teardown(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
