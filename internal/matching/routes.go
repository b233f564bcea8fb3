package matching

import (
	"github.com/gorilla/mux"

	"github.com/adeolasoneye/mingle-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Like Store
	api.HandleFunc("/like", handler.Like).Methods("POST")
	api.HandleFunc("/unlike", handler.Unlike).Methods("POST")
	api.HandleFunc("/like/{userId:[0-9]+}", handler.CheckLike).Methods("GET")

	// Match Resolver
	api.HandleFunc("/status/{userId:[0-9]+}", handler.CheckMatch).Methods("GET")
	api.HandleFunc("/liked", handler.GetLikedUsers).Methods("GET")
	api.HandleFunc("/matches", handler.GetMatchedUsers).Methods("GET")
	api.HandleFunc("/liked-me/count", handler.GetLikedMeCount).Methods("GET")

	// Receiver response to an incoming like
	api.HandleFunc("/respond/{userId:[0-9]+}", handler.Respond).Methods("POST")
}

func RegisterAdminRoutes(router *mux.Router, handler *AdminHandler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/admin/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.Use(authMiddleware.RequireAdmin)

	api.HandleFunc("/override", handler.Override).Methods("POST")
	api.HandleFunc("/records/{userId:[0-9]+}", handler.ClearRecords).Methods("DELETE")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
}
