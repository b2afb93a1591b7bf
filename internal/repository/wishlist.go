package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"moviegram/internal/model"
)

type wishlistRepository struct {
	db *sqlx.DB
}

func NewWishlistRepository(db *sqlx.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add inserts a wishlist entry. The (user_id, movie_id) unique constraint
// enforces the no-duplicates rule at the store, so concurrent saves of the
// same movie cannot both land.
func (r *wishlistRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (user_id, movie_id, title, poster_path, vote_average, release_date, media_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.UserID,
		item.MovieID,
		item.Title,
		item.PosterPath,
		item.VoteAverage,
		item.ReleaseDate,
		item.MediaType,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return model.ErrWishlistDuplicate
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}

	return nil
}

// Remove deletes an entry. Removing a movie that is not on the list is a no-op.
func (r *wishlistRepository) Remove(ctx context.Context, userID int64, movieID string) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND movie_id = $2`

	_, err := r.db.ExecContext(ctx, query, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	return nil
}

// ListByUser returns the user's saved movies, most recently added first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	query := `
		SELECT id, user_id, movie_id, title, poster_path, vote_average, release_date, media_type, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	items := []model.WishlistItem{}
	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	return items, nil
}
