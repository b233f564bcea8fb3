// internal/auth/handlers.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adeolasoneye/mingle-backend/internal/common/utils"
)

// Handler handles auth HTTP requests
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrUsernameAlreadyExists):
			utils.ErrorResponse(w, err.Error(), http.StatusConflict)
		default:
			utils.ErrorResponse(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, resp, http.StatusCreated)
}

// Signin handles POST /api/auth/signin
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Signin(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			utils.ErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		utils.ErrorResponse(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

// Refresh handles POST /api/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		utils.ErrorResponse(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		utils.ErrorResponse(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Logged out successfully", http.StatusOK)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to fetch user", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, user, http.StatusOK)
}
