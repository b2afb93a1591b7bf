package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"moviegram/internal/handler"
	"moviegram/internal/httputil"
	authmw "moviegram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	MovieHandler        *handler.MovieHandler
	CommentHandler      *handler.CommentHandler
	WishlistHandler     *handler.WishlistHandler
	NotificationHandler *handler.NotificationHandler
	ChatHandler         *handler.ChatHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/logout", cfg.AuthHandler.Logout)
		r.Post("/send-otp", cfg.AuthHandler.SendOTP)
		r.Post("/verify-otp", cfg.AuthHandler.VerifyOTP)
		r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
		r.Post("/check-email", cfg.AuthHandler.CheckEmail)
	})

	// Public browse endpoints
	r.Get("/person/{personId}/credits", cfg.MovieHandler.PersonCredits)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/trending", cfg.MovieHandler.Trending)
		r.Get("/search", cfg.MovieHandler.Search)
		r.Get("/{mediaType}/{movieId}", cfg.MovieHandler.Details)

		// Comment reads are public; signed-in viewers get their like flags
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).
			Get("/{movieId}/comments", cfg.CommentHandler.List)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Current user endpoints
		r.Get("/me", cfg.UserHandler.Me)
		r.Patch("/me", cfg.UserHandler.UpdateProfile)
		r.Put("/me/avatar", cfg.UserHandler.UploadAvatar)

		// Comment writes
		r.Post("/movies/{movieId}/comments", cfg.CommentHandler.Create)
		r.Delete("/comments/{commentId}", cfg.CommentHandler.Delete)
		r.Post("/comments/{commentId}/like", cfg.CommentHandler.ToggleLike)

		// Wishlist
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", cfg.WishlistHandler.List)
			r.Post("/", cfg.WishlistHandler.Add)
			r.Delete("/{movieId}", cfg.WishlistHandler.Remove)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/", cfg.NotificationHandler.Create)
			r.Patch("/read", cfg.NotificationHandler.MarkRead)
			r.Patch("/read-all", cfg.NotificationHandler.MarkAllRead)
			r.Delete("/{notificationId}", cfg.NotificationHandler.Delete)
		})

		// AI assistant
		r.Post("/chat", cfg.ChatHandler.Chat)
	})

	return r
}
