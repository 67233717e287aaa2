// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/middleware"
	requestutil "github.com/taibuivan/invitation/internal/platform/request"
	"github.com/taibuivan/invitation/internal/platform/respond"
	"github.com/taibuivan/invitation/pkg/slug"
)

// Query parameters and flags understood by the settings endpoint.
const (
	queryPageID   = "pageId"
	queryUserURL  = "userUrl"
	queryDate     = "date"
	flagTransport = "transport"
	flagInfo      = "info"
	flagApproval  = "approval"
)

// Handler serves /api/page-settings. One path multiplexes the settings
// record, the two child lists and the approval seed by query flag.
type Handler struct {
	service  *Service
	resolver PageResolver
}

// NewHandler creates a new settings handler.
func NewHandler(service *Service, resolver PageResolver) *Handler {
	return &Handler{service: service, resolver: resolver}
}

// RegisterRoutes mounts the handler. Reads are public; writes need a token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.read)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.write)
		protected.Put("/", handler.write)
	})
}

// # Request / Response Shapes

type writeRequest struct {
	PageID       string         `json:"pageId"`
	Settings     map[string]any `json:"settings"`
	Items        []ItemInput    `json:"items" validate:"max=100,dive"`
	LocationName *string        `json:"locationName"`
	VenueAddress *string        `json:"venue_address"`
}

type transportResponse struct {
	Items        []ListItem `json:"items"`
	LocationName string     `json:"locationName"`
	VenueAddress string     `json:"venue_address"`
}

type infoResponse struct {
	Items []ListItem `json:"items"`
}

// # Reads

func (handler *Handler) read(writer http.ResponseWriter, request *http.Request) {
	context := request.Context()

	pageID, err := handler.readTarget(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch {
	case requestutil.HasFlag(request, flagTransport):
		items, err := handler.service.Items(context, pageID, ListTransport)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		record, err := handler.service.Get(context, pageID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, transportResponse{
			Items:        items,
			LocationName: record.Fields.Text(FieldTransportLocationName),
			VenueAddress: record.Fields.Text(FieldVenueAddress),
		})

	case requestutil.HasFlag(request, flagInfo):
		items, err := handler.service.Items(context, pageID, ListInfo)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, infoResponse{Items: items})

	default:
		record, err := handler.service.Get(context, pageID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, record)
	}
}

// readTarget resolves the page of a read: identity first, then an explicit
// pageId, then a handle. A handle is never used as a page id.
func (handler *Handler) readTarget(request *http.Request) (string, error) {
	identity := requestutil.Identity(request)
	pageID := requestutil.Query(request, queryPageID)

	if pageID == "" && !boundToPage(identity) {
		handle := requestutil.Query(request, queryUserURL)
		if handle == "" {
			return "", apperr.ValidationError("pageId or userUrl is required")
		}
		normalized := slug.Handle(handle)
		if normalized == "" {
			return "", apperr.NotFound("Page")
		}
		return handler.resolver.Resolve(request.Context(), normalized, requestutil.Query(request, queryDate))
	}

	return TargetPage(identity, pageID)
}

// # Writes

func (handler *Handler) write(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input writeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if requestutil.HasFlag(request, flagApproval) {
		handler.seed(writer, request, input)
		return
	}

	requested := input.PageID
	if requested == "" {
		requested = requestutil.Query(request, queryPageID)
	}
	pageID, err := TargetPage(identity, requested)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	switch {
	case requestutil.HasFlag(request, flagTransport):
		handler.replaceTransport(writer, request, pageID, input)
	case requestutil.HasFlag(request, flagInfo):
		handler.replaceInfo(writer, request, pageID, input)
	default:
		handler.save(writer, request, pageID, input)
	}
}

func (handler *Handler) save(writer http.ResponseWriter, request *http.Request, pageID string, input writeRequest) {
	if input.Settings == nil {
		respond.Error(writer, request, apperr.ValidationError("settings is required"))
		return
	}

	fields, err := Sanitize(input.Settings)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Save(request.Context(), pageID, fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) replaceTransport(writer http.ResponseWriter, request *http.Request, pageID string, input writeRequest) {
	context := request.Context()

	items, err := handler.service.ReplaceList(context, pageID, ListTransport, input.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	location := Fields{}
	if input.LocationName != nil {
		location[FieldTransportLocationName] = *input.LocationName
	}
	if input.VenueAddress != nil {
		location[FieldVenueAddress] = *input.VenueAddress
	}

	response := transportResponse{Items: items}
	if len(location) > 0 {
		record, err := handler.service.Save(context, pageID, location)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		response.LocationName = record.Fields.Text(FieldTransportLocationName)
		response.VenueAddress = record.Fields.Text(FieldVenueAddress)
	}

	respond.OK(writer, response)
}

func (handler *Handler) replaceInfo(writer http.ResponseWriter, request *http.Request, pageID string, input writeRequest) {
	items, err := handler.service.ReplaceList(request.Context(), pageID, ListInfo, input.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, infoResponse{Items: items})
}

// seed handles ?approval. Only operators approve accounts.
func (handler *Handler) seed(writer http.ResponseWriter, request *http.Request, input writeRequest) {
	if !requestutil.Identity(request).IsAdmin() {
		respond.Error(writer, request, apperr.Forbidden("Approval requires an administrator"))
		return
	}

	pageID := requestutil.Query(request, queryPageID)
	if pageID == "" {
		pageID = input.PageID
	}
	if pageID == "" {
		respond.Error(writer, request, apperr.ValidationError("pageId is required"))
		return
	}
	if input.Settings == nil {
		respond.Error(writer, request, apperr.ValidationError("settings is required"))
		return
	}

	fields, err := Sanitize(input.Settings)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SeedOnApproval(request.Context(), pageID, fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Noop {
		respond.OKWithMessage(writer, result, "Wedding details already set; nothing to seed")
		return
	}
	respond.OK(writer, result)
}
