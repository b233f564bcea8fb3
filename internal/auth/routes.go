// internal/auth/routes.go

package auth

import "github.com/gorilla/mux"

func RegisterRoutes(router *mux.Router, handler *Handler, middleware *Middleware) {
	api := router.PathPrefix("/api/auth").Subrouter()

	api.HandleFunc("/signup", handler.Signup).Methods("POST")
	api.HandleFunc("/signin", handler.Signin).Methods("POST")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	protected := router.PathPrefix("/api/auth").Subrouter()
	protected.Use(middleware.Authenticate)
	protected.HandleFunc("/logout", handler.Logout).Methods("POST")
	protected.HandleFunc("/me", handler.Me).Methods("GET")
}
