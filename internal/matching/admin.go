// internal/matching/admin.go
// Administrative operations on match records: forced status overrides,
// bulk clears, and aggregate stats. These are the only paths that may
// mutate a record not owned by the acting user.

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/adeolasoneye/mingle-backend/internal/common/utils"
)

type AdminService struct {
	repo  Repository
	cache *CountCache
}

func NewAdminService(repo Repository, cache *CountCache) *AdminService {
	return &AdminService{repo: repo, cache: cache}
}

// OverrideStatus forces a directed record into the given status,
// creating the record if it does not exist
func (a *AdminService) OverrideStatus(ctx context.Context, userID, matchedUserID int64, status string) error {
	if userID == matchedUserID {
		return ErrCannotLikeSelf
	}

	if err := a.repo.ForceStatus(ctx, userID, matchedUserID, status); err != nil {
		return err
	}

	a.cache.Invalidate(ctx, matchedUserID)
	return nil
}

// ClearUserRecords removes every directed record involving the user,
// in both directions. Returns the number of rows removed.
func (a *AdminService) ClearUserRecords(ctx context.Context, userID int64) (int64, error) {
	removed, others, err := a.repo.DeleteUserRecords(ctx, userID)
	if err != nil {
		return 0, err
	}

	// Counts changed on both sides of every deleted row.
	a.cache.Invalidate(ctx, userID)
	for _, other := range others {
		a.cache.Invalidate(ctx, other)
	}
	return removed, nil
}

// GetStats collects aggregate record counters
func (a *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats, err := a.repo.CollectStats(ctx)
	if err != nil {
		return nil, err
	}

	stats.CollectedAt = time.Now()
	return stats, nil
}

// AdminHandler exposes the admin operations over HTTP
type AdminHandler struct {
	admin *AdminService
}

func NewAdminHandler(admin *AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Override(w http.ResponseWriter, r *http.Request) {
	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.admin.OverrideStatus(r.Context(), req.UserID, req.TargetUserID, req.Status); err != nil {
		if errors.Is(err, ErrCannotLikeSelf) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to override record", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Record status overridden", http.StatusOK)
}

func (h *AdminHandler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	removed, err := h.admin.ClearUserRecords(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to clear records", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStats(r.Context())
	if err != nil {
		utils.ErrorResponse(w, "Failed to collect stats", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, stats, http.StatusOK)
}
