// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package api

import (
	"net/http"

	"github.com/taskbuddy/taskbuddy/internal/models"
)

// loginResponse is the data payload of a successful login.
type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondCreated(w, "User registered successfully!", u)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, u, err := h.users.Authenticate(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Login successful!", loginResponse{Token: token, User: u})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.passwordReset.Request(r.Context(), req.Email); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "OTP sent to your email", nil)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.passwordReset.Reset(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, "Password reset successfully", nil)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r)
	if !ok {
		return
	}
	respondOK(w, "User retrieved successfully!", u)
}
