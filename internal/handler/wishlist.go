package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"moviegram/internal/httputil"
	"moviegram/internal/model"
	"moviegram/internal/service"
	"moviegram/internal/transport/http/middleware"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Add handles POST /wishlist
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.AddWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	item, err := h.wishlistService.Add(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMovieIDRequired):
			httputil.WriteBadRequest(w, "Movie ID is required")
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Title is required")
		case errors.Is(err, model.ErrWishlistDuplicate):
			httputil.WriteConflict(w, "Movie already in wishlist")
		default:
			log.Printf("[ERROR] Add wishlist handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to save movie")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// Remove handles DELETE /wishlist/{movieId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	movieID := chi.URLParam(r, "movieId")

	if err := h.wishlistService.Remove(r.Context(), userID, movieID); err != nil {
		if errors.Is(err, model.ErrMovieIDRequired) {
			httputil.WriteBadRequest(w, "Movie ID is required")
			return
		}
		log.Printf("[ERROR] Remove wishlist handler: user=%d movie=%s err=%v", userID, movieID, err)
		httputil.WriteInternalError(w, "Failed to remove movie")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Movie removed from wishlist",
	})
}

// List handles GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	items, err := h.wishlistService.List(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] List wishlist handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get wishlist")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}
