package routes

import (
	"net/http"

	"github.com/mdpreview/mdpreview/internal/app"
	"github.com/mdpreview/mdpreview/internal/handler"
	"github.com/mdpreview/mdpreview/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	file := handler.NewFileHandler(app.FileService, app.Markdown, app.Cfg)
	trash := handler.NewTrashHandler(app.FileService, app.Cfg)
	group := handler.NewGroupHandler(app.GroupService, app.Cfg)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /api/auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /api/auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("GET /api/auth/github", rateLimiter(auth.GitHubAuth))
	mux.HandleFunc("GET /api/auth/github/callback", rateLimiter(auth.GitHubCallback))

	// Profile
	mux.HandleFunc("GET /api/auth/profile", middleware.RequireAuth(auth.Profile))
	mux.HandleFunc("PUT /api/auth/profile", middleware.RequireAuth(auth.UpdateProfile))
	mux.HandleFunc("POST /api/auth/change-password", middleware.RequireAuth(auth.ChangePassword))
	mux.HandleFunc("DELETE /api/auth/account", middleware.RequireAuth(auth.DeleteAccount))

	// Files. Literal segments ("count", "recent", "trash") take precedence
	// over the {id} wildcard; ids are UUIDs so they never collide.
	mux.HandleFunc("GET /api/files", middleware.RequireAuth(file.List))
	mux.HandleFunc("GET /api/files/count", middleware.RequireAuth(file.Count))
	mux.HandleFunc("GET /api/files/recent", middleware.RequireAuth(file.Recent))
	mux.HandleFunc("GET /api/files/{id}", middleware.RequireAuth(file.Get))
	mux.HandleFunc("GET /api/files/{id}/preview", middleware.RequireAuth(file.Preview))
	mux.HandleFunc("POST /api/files", middleware.RequireAuth(file.Create))
	mux.HandleFunc("PUT /api/files/{id}", middleware.RequireAuth(file.Update))
	mux.HandleFunc("DELETE /api/files", middleware.RequireAuth(file.BulkDelete))
	mux.HandleFunc("DELETE /api/files/{id}", middleware.RequireAuth(file.Delete))

	// Trash
	mux.HandleFunc("GET /api/files/trash", middleware.RequireAuth(trash.List))
	mux.HandleFunc("GET /api/files/trash/count", middleware.RequireAuth(trash.Count))
	mux.HandleFunc("POST /api/files/trash/{id}/restore", middleware.RequireAuth(trash.Restore))
	mux.HandleFunc("POST /api/files/trash/restore-all", middleware.RequireAuth(trash.RestoreAll))
	mux.HandleFunc("DELETE /api/files/trash/{id}", middleware.RequireAuth(trash.DeletePermanent))
	mux.HandleFunc("DELETE /api/files/trash", middleware.RequireAuth(trash.Empty))

	// Groups
	mux.HandleFunc("GET /api/groups", middleware.RequireAuth(group.List))
	mux.HandleFunc("GET /api/groups/{id}", middleware.RequireAuth(group.Get))
	mux.HandleFunc("POST /api/groups", middleware.RequireAuth(group.Create))
	mux.HandleFunc("PUT /api/groups/{id}", middleware.RequireAuth(group.Update))
	mux.HandleFunc("DELETE /api/groups/{id}", middleware.RequireAuth(group.Delete))

	// 404
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)

	return handler
}
