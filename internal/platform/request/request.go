// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, query flag
dispatch and body decoding, ensuring consistent error handling.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/ctxutil"
	"github.com/taibuivan/invitation/internal/platform/sec"
	"github.com/taibuivan/invitation/internal/platform/validate"
)

// maxBodyBytes caps request bodies. Settings payloads are small JSON objects.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body, decodes it into target and checks its
`validate` struct tags.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, a VALIDATION_ERROR if
    tags fail, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	decoder.UseNumber()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.ValidationError("Request body is required")
		}
		return validate.ErrInvalidJSON
	}

	return validate.Struct(target)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query returns a query-string value, or "" when absent.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

/*
HasFlag reports whether a bare query flag (e.g. "?transport") is present,
with or without a value.
*/
func HasFlag(request *http.Request, name string) bool {
	_, ok := request.URL.Query()[name]
	return ok
}

/*
Identity extracts the verified caller identity from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *sec.AuthClaims: The verified caller identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetIdentity(request.Context())

	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
