// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Every response, success or error, uses one JSON envelope:
//
//	{ "success": bool, "data"?, "error"?, "message"?, "details"?, "hint"?, "code"? }
//
// The page builder front-end and the publishing scripts parse this shape
// without caring which handler produced it.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/ctxutil"
)

// Envelope is the JSON body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKWithMessage writes a 200 OK response carrying both data and a human-readable note.
func OKWithMessage(writer http.ResponseWriter, data any, message string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("store_code", appError.StoreCode),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, envelopeFor(appError))
}

// envelopeFor maps an [apperr.AppError] onto the wire envelope.
//
// Store errors report the store's own code and details; every other class
// reports the application code and field-level details.
func envelopeFor(appError *apperr.AppError) Envelope {
	envelope := Envelope{
		Success: false,
		Error:   appError.Message,
		Message: appError.StoreMessage,
		Hint:    appError.Hint,
		Code:    appError.Code,
	}

	if appError.StoreCode != "" {
		envelope.Code = appError.StoreCode
	}

	switch {
	case appError.StoreDetails != "":
		envelope.Details = appError.StoreDetails
	case len(appError.Details) > 0:
		envelope.Details = appError.Details
	}

	return envelope
}
