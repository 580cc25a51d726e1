package server

import (
	"net/http"

	"przepisnik/internal/handlers"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/api/auth/register", handlers.Register)
	mux.HandleFunc("/api/auth/login", handlers.Login)
	mux.HandleFunc("/api/auth/logout", handlers.Logout)
	mux.Handle("/api/users/me", handlers.RequireAuthentication(http.HandlerFunc(handlers.CurrentUser)))
	mux.Handle("/api/users/me/settings", handlers.RequireAuthentication(http.HandlerFunc(handlers.UpdateSettings)))
	mux.Handle("/api/recipes", handlers.RequireAuthentication(http.HandlerFunc(handlers.RecipeCollection)))
	mux.Handle("/api/recipes/", handlers.RequireAuthentication(http.HandlerFunc(handlers.RecipeResource)))
	mux.Handle("/api/shopping-list", handlers.RequireAuthentication(http.HandlerFunc(handlers.ShoppingListResource)))
	mux.Handle("/api/shopping-list/", handlers.RequireAuthentication(http.HandlerFunc(handlers.ShoppingListResource)))
	mux.Handle("/api/substitutions/report", handlers.RequireAuthentication(http.HandlerFunc(handlers.ReportSubstitution)))
	return mux
}
