package model

import (
	"errors"
	"time"
)

// WishlistItem is a movie or show a user saved for later. Title, poster and
// rating are denormalized from the metadata API at save time so the list can
// render without refetching every entry.
type WishlistItem struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	MovieID     string    `db:"movie_id" json:"movie_id"`
	Title       string    `db:"title" json:"title"`
	PosterPath  *string   `db:"poster_path" json:"poster_path"`
	VoteAverage *float64  `db:"vote_average" json:"vote_average"`
	ReleaseDate *string   `db:"release_date" json:"release_date"`
	MediaType   string    `db:"media_type" json:"media_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AddWishlistRequest is the request body for saving a movie to the wishlist.
type AddWishlistRequest struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	ReleaseDate *string  `json:"release_date"`
	MediaType   string   `json:"media_type"`
}

// Wishlist errors
var (
	ErrWishlistDuplicate = errors.New("movie already in wishlist")
	ErrTitleRequired     = errors.New("title is required")
)
