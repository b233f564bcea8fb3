// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"

	"github.com/adeolasoneye/mingle-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messages").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.SendMessage).Methods("POST")
	api.HandleFunc("/conversation", handler.GetConversation).Methods("GET")
	api.HandleFunc("/unread/count", handler.UnreadCount).Methods("GET")
	api.HandleFunc("/{userId:[0-9]+}/read", handler.MarkRead).Methods("POST")

	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(authMiddleware.Authenticate)
	ws.HandleFunc("", handler.ServeWS).Methods("GET")
}
