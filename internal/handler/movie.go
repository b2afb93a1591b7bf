package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moviegram/internal/httputil"
	"moviegram/internal/service"
)

// MovieHandler proxies the metadata API for browse surfaces. Responses are
// the upstream JSON passed through untouched.
type MovieHandler struct {
	tmdb *service.TMDBClient
}

func NewMovieHandler(tmdb *service.TMDBClient) *MovieHandler {
	return &MovieHandler{tmdb: tmdb}
}

// Trending handles GET /movies/trending
func (h *MovieHandler) Trending(w http.ResponseWriter, r *http.Request) {
	payload, err := h.tmdb.Trending(r.Context())
	if err != nil {
		writeUpstreamError(w, "trending", err)
		return
	}
	writeRawJSON(w, payload)
}

// Search handles GET /movies/search?query=...&page=N
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		httputil.WriteBadRequest(w, "Query is required")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			httputil.WriteBadRequest(w, "Invalid page parameter")
			return
		}
		page = parsed
	}

	payload, err := h.tmdb.Search(r.Context(), query, page)
	if err != nil {
		writeUpstreamError(w, "search", err)
		return
	}
	writeRawJSON(w, payload)
}

// Details handles GET /movies/{mediaType}/{movieId}
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	mediaType := chi.URLParam(r, "mediaType")
	movieID := chi.URLParam(r, "movieId")
	if movieID == "" {
		httputil.WriteBadRequest(w, "Movie ID is required")
		return
	}

	payload, err := h.tmdb.Details(r.Context(), mediaType, movieID)
	if err != nil {
		writeUpstreamError(w, "details", err)
		return
	}
	writeRawJSON(w, payload)
}

// PersonCredits handles GET /person/{personId}/credits
func (h *MovieHandler) PersonCredits(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "personId")
	if personID == "" {
		httputil.WriteBadRequest(w, "Person ID is required")
		return
	}

	payload, err := h.tmdb.PersonCredits(r.Context(), personID)
	if err != nil {
		writeUpstreamError(w, "person credits", err)
		return
	}
	writeRawJSON(w, payload)
}

func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrUpstream) {
		log.Printf("[ERROR] Movie %s handler: upstream err=%v", op, err)
		httputil.WriteBadGateway(w, "Movie data provider unavailable")
		return
	}
	log.Printf("[ERROR] Movie %s handler: err=%v", op, err)
	httputil.WriteInternalError(w, "Failed to fetch movie data")
}
