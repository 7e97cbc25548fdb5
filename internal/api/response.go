// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

// Package api provides the HTTP surface of TaskBuddy: the chi router, the
// request DTOs, and the handlers that translate between HTTP and the
// service layer. Every endpoint answers with the same envelope:
//
//	{"success": bool, "message": string, "data": ...}
package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/taskbuddy/taskbuddy/internal/authz"
	"github.com/taskbuddy/taskbuddy/internal/database"
	"github.com/taskbuddy/taskbuddy/internal/logging"
	"github.com/taskbuddy/taskbuddy/internal/service"
)

// Response is the envelope every endpoint writes.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// Unauthorized writes the 401 envelope. The authentication middleware is
// constructed outside this package and uses it as its deny callback so
// rejected requests carry the same envelope as every other response.
func Unauthorized(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnauthorized, message)
}

// respondServiceError maps a service-layer error to an HTTP status.
// Authorization failures become 403, missing entities 404, business-rule
// rejections 400; anything else is a 500 with the detail kept out of the
// response body.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authz.ErrAccessDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, authz.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case service.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case service.IsInvalidInput(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case database.IsDuplicate(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
