// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/adeolasoneye/mingle-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Like handles POST /like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.Like(r.Context(), userID, req.TargetUserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotLikeSelf), errors.Is(err, ErrAlreadyLiked):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrTargetNotFound):
			utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
		default:
			utils.ErrorResponse(w, "Failed to like user", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, record, http.StatusCreated)
}

// Unlike handles POST /unlike
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UnlikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.Unlike(r.Context(), userID, req.TargetUserID)
	if err != nil {
		if errors.Is(err, ErrLikeNotFound) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to unlike user", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, record, http.StatusOK)
}

// CheckLike handles GET /like/{userId}
func (h *Handler) CheckLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := pathUserID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	isLiked, err := h.service.HasLiked(r.Context(), userID, targetID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to check like status", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LikeStatusResponse{
		Success: true,
		IsLiked: isLiked,
	})
}

// CheckMatch handles GET /status/{userId}
func (h *Handler) CheckMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := pathUserID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	status, err := h.service.CheckStatus(r.Context(), userID, targetID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to check match status", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, PairStatusResponse{
		Success:     true,
		HasLiked:    status.HasLiked,
		IsMatched:   status.IsMatched,
		MyStatus:    status.MyStatus,
		TheirStatus: status.TheirStatus,
	})
}

// GetLikedUsers handles GET /liked
func (h *Handler) GetLikedUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	liked, err := h.service.GetLikedByMe(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get liked users", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, LikedUsersResponse{
		Success:    true,
		LikedUsers: liked,
		Total:      len(liked),
	})
}

// GetMatchedUsers handles GET /matches
func (h *Handler) GetMatchedUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matched, err := h.service.GetMatchedUsers(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to get matched users", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, MatchedUsersResponse{
		Success:      true,
		MatchedUsers: matched,
		Total:        len(matched),
	})
}

// GetLikedMeCount handles GET /liked-me/count
func (h *Handler) GetLikedMeCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.service.CountLikedMe(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to count likes", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

// Respond handles POST /respond/{userId}
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := pathUserID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.Respond(r.Context(), userID, otherID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoIncomingLike):
			utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrAlreadyResponded):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to respond to like", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, record, http.StatusOK)
}

func pathUserID(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["userId"], 10, 64)
}
