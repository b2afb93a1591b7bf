package service

import (
	"context"
	"log"
	"strings"

	"moviegram/internal/model"
	"moviegram/internal/repository"
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo}
}

// Add saves a movie to the user's wishlist. The title, poster and rating are
// snapshotted from the request so the list renders without a metadata fetch.
// Saving the same movie twice reports a duplicate.
func (s *WishlistService) Add(ctx context.Context, userID int64, req model.AddWishlistRequest) (*model.WishlistItem, error) {
	if strings.TrimSpace(req.MovieID) == "" {
		return nil, model.ErrMovieIDRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrTitleRequired
	}

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "movie"
	}

	item := &model.WishlistItem{
		UserID:      userID,
		MovieID:     req.MovieID,
		Title:       strings.TrimSpace(req.Title),
		PosterPath:  req.PosterPath,
		VoteAverage: req.VoteAverage,
		ReleaseDate: req.ReleaseDate,
		MediaType:   mediaType,
	}

	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	log.Printf("[WishlistService] User %d saved movie %s", userID, item.MovieID)
	return item, nil
}

// Remove takes a movie off the wishlist. Removing a movie that was never
// saved is a no-op.
func (s *WishlistService) Remove(ctx context.Context, userID int64, movieID string) error {
	if strings.TrimSpace(movieID) == "" {
		return model.ErrMovieIDRequired
	}
	return s.wishlistRepo.Remove(ctx, userID, movieID)
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}
