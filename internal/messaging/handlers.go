// internal/messaging/handlers.go

package messaging

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/adeolasoneye/mingle-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service  Service
	hub      *Hub
	presence *PresenceTracker
}

func NewHandler(service Service, hub *Hub, presence *PresenceTracker) *Handler {
	return &Handler{
		service:  service,
		hub:      hub,
		presence: presence,
	}
}

// SendMessage handles POST /api/v1/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrNotMatched):
			utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to send message", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, msg, http.StatusCreated)
}

// GetConversation handles GET /api/v1/messages/conversation
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || otherID <= 0 {
		utils.ErrorResponse(w, "Missing or invalid user_id", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	conv, err := h.service.GetConversation(r.Context(), userID, otherID, limit, offset)
	if err != nil {
		if errors.Is(err, ErrNotMatched) {
			utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
			return
		}
		utils.ErrorResponse(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, conv, http.StatusOK)
}

// MarkRead handles POST /api/v1/messages/{userId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID, err := pathUserID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, otherID); err != nil {
		if errors.Is(err, ErrNotMatched) {
			utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
			return
		}
		utils.ErrorResponse(w, "Failed to mark conversation read", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Conversation marked read", http.StatusOK)
}

// UnreadCount handles GET /api/v1/messages/unread/count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.service.CountUnread(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to count unread messages", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// ServeWS handles GET /ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	client := newClient(h.hub, conn, userID)
	h.hub.register <- client

	if err := h.presence.Touch(r.Context(), userID); err != nil {
		log.Printf("failed to set presence for user %d: %v", userID, err)
	}

	go client.writePump()
	go client.readPump()
}

func pathUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
}
