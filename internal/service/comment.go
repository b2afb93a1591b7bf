package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"moviegram/internal/model"
	"moviegram/internal/queue"
	"moviegram/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// Create adds a comment or reply to a movie. The author identity comes from
// the authenticated token, never the request body, and the author's current
// username is snapshotted into the comment.
func (s *CommentService) Create(ctx context.Context, movieID string, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(movieID) == "" {
		return nil, model.ErrMovieIDRequired
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	// A reply must answer a comment on the same movie. Replies to replies are
	// allowed to any depth; the client flattens the indentation, not the data.
	var parent *model.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err // ErrCommentNotFound or wrapped error
		}
		if parent.MovieID != movieID {
			return nil, model.ErrParentMismatch
		}
	}

	comment, err := s.commentRepo.Create(ctx, movieID, userID, author.Username, content, req.ParentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[CommentService] User %d commented on movie %s (comment=%d)", userID, movieID, comment.ID)

	// Publish engagement event (after write, best-effort)
	if s.publisher != nil && parent != nil {
		event := queue.NewCommentRepliedEvent(movieID, comment.ID, parent.ID, userID, author.Username, parent.UserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[CommentService] Failed to publish CommentReplied event: %v", err)
		}
	}

	return comment, nil
}

// Delete removes a comment and its direct replies. The cascade stops there:
// replies-to-replies survive as orphaned rows that BuildCommentTree drops
// from the rendered forest. Deleting an id that no longer exists is a no-op,
// so repeated deletes land identically.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if err == model.ErrCommentNotFound {
			return nil
		}
		return err
	}

	if comment.UserID != userID {
		return model.ErrNotCommentOwner
	}

	removed, err := s.commentRepo.DeleteWithReplies(ctx, commentID)
	if err != nil {
		return err
	}

	log.Printf("[CommentService] User %d deleted comment %d from movie %s (removed=%d)",
		userID, commentID, comment.MovieID, removed)
	return nil
}

// ToggleLike flips the user's membership in the comment's like set. Each call
// flips exactly once; the store-level upsert/delete keeps concurrent toggles
// from double-counting.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID int64) (*model.LikeResult, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err // ErrCommentNotFound or wrapped error
	}

	liked, err := s.commentRepo.AddLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	if !liked {
		// Already liked: this toggle is an unlike
		if _, err := s.commentRepo.RemoveLike(ctx, commentID, userID); err != nil {
			return nil, err
		}
	}

	count, err := s.commentRepo.CountLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}

	log.Printf("[CommentService] User %d %s comment %d (likes=%d)",
		userID, likeVerb(liked), commentID, count)

	if s.publisher != nil && liked {
		actorName := ""
		if actor, err := s.userRepo.GetByID(ctx, userID); err == nil {
			actorName = actor.Username
		}
		event := queue.NewCommentLikedEvent(comment.MovieID, commentID, userID, actorName, comment.UserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[CommentService] Failed to publish CommentLiked event: %v", err)
		}
	}

	return &model.LikeResult{Liked: liked, LikesCount: count}, nil
}

// ListByMovieID returns a movie's full comment set, flat and as a tree.
func (s *CommentService) ListByMovieID(ctx context.Context, movieID string, viewerID int64) (*model.CommentListResponse, error) {
	comments, err := s.commentRepo.ListByMovieID(ctx, movieID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &model.CommentListResponse{
		Comments: comments,
		Tree:     BuildCommentTree(comments),
	}, nil
}

// BuildCommentTree assembles a flat comment list (ordered by creation time
// ascending) into an ordered forest. Two passes: first wrap every comment in
// a node, then attach each node to its parent's replies or to the top level.
// Both passes walk the input order, so the forest and every replies slice
// keep the input's relative ordering.
//
// A node whose parent id is absent from the input is dropped, together with
// everything under it. That happens when an ancestor was deleted: the delete
// cascade removes only direct replies, so deeper descendants stay stored with
// a parent reference that no longer resolves.
//
// Pure function: no side effects, no depth limit, no cycle check. A comment's
// id is assigned after its parent reference is supplied, so references can
// only point backwards to already-created comments.
func BuildCommentTree(comments []model.Comment) []*model.CommentNode {
	nodes := make(map[int64]*model.CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &model.CommentNode{
			Comment: comments[i],
			Replies: []*model.CommentNode{},
		}
	}

	forest := []*model.CommentNode{}
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID == nil {
			forest = append(forest, node)
			continue
		}

		parent, ok := nodes[*comments[i].ParentID]
		if !ok {
			// Orphan: parent deleted out from under it. Invisible in the
			// forest, still present in the flat store.
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return forest
}

func likeVerb(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}
