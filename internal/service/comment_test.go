package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"moviegram/internal/model"
	"moviegram/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================
//
// CommentService depends on the repository INTERFACES, so unit tests swap in
// mocks with per-test behavior instead of hitting Postgres.

type mockCommentRepository struct {
	createFn            func(ctx context.Context, movieID string, userID int64, authorUsername, content string, parentID *int64) (*model.Comment, error)
	getByIDFn           func(ctx context.Context, commentID int64) (*model.Comment, error)
	listByMovieIDFn     func(ctx context.Context, movieID string, viewerID int64) ([]model.Comment, error)
	deleteWithRepliesFn func(ctx context.Context, commentID int64) (int64, error)
	addLikeFn           func(ctx context.Context, commentID, userID int64) (bool, error)
	removeLikeFn        func(ctx context.Context, commentID, userID int64) (bool, error)
	countLikesFn        func(ctx context.Context, commentID int64) (int, error)

	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, movieID string, userID int64, authorUsername, content string, parentID *int64) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, movieID, userID, authorUsername, content, parentID)
	}
	return &model.Comment{
		ID:        1,
		MovieID:   movieID,
		UserID:    userID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: time.Now(),
		Author:    &model.CommentAuthor{UserID: userID, Username: authorUsername},
	}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByMovieID(ctx context.Context, movieID string, viewerID int64) ([]model.Comment, error) {
	if m.listByMovieIDFn != nil {
		return m.listByMovieIDFn(ctx, movieID, viewerID)
	}
	return nil, nil
}

func (m *mockCommentRepository) DeleteWithReplies(ctx context.Context, commentID int64) (int64, error) {
	m.deleteCalls = append(m.deleteCalls, commentID)
	if m.deleteWithRepliesFn != nil {
		return m.deleteWithRepliesFn(ctx, commentID)
	}
	return 1, nil
}

func (m *mockCommentRepository) AddLike(ctx context.Context, commentID, userID int64) (bool, error) {
	if m.addLikeFn != nil {
		return m.addLikeFn(ctx, commentID, userID)
	}
	return true, nil
}

func (m *mockCommentRepository) RemoveLike(ctx context.Context, commentID, userID int64) (bool, error) {
	if m.removeLikeFn != nil {
		return m.removeLikeFn(ctx, commentID, userID)
	}
	return true, nil
}

func (m *mockCommentRepository) CountLikes(ctx context.Context, commentID int64) (int, error) {
	if m.countLikesFn != nil {
		return m.countLikesFn(ctx, commentID)
	}
	return 0, nil
}

type mockPublisher struct {
	events []queue.EngagementEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.EngagementEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}

func userRepoWithUser(user *model.User) *mockUserRepository {
	return &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if user != nil && id == user.ID {
				return user, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

func ptr(id int64) *int64 { return &id }

// =============================================================================
// TREE BUILDING
// =============================================================================

func flattenForest(forest []*model.CommentNode) []int64 {
	var ids []int64
	var walk func(nodes []*model.CommentNode)
	walk = func(nodes []*model.CommentNode) {
		for _, n := range nodes {
			ids = append(ids, n.ID)
			walk(n.Replies)
		}
	}
	walk(forest)
	return ids
}

func TestBuildCommentTree_ThreadsReplies(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, MovieID: "m1"},
		{ID: 2, MovieID: "m1", ParentID: ptr(1)},
		{ID: 3, MovieID: "m1", ParentID: ptr(2)},
		{ID: 4, MovieID: "m1"},
	}

	forest := BuildCommentTree(comments)

	if len(forest) != 2 {
		t.Fatalf("forest roots = %d, want 2", len(forest))
	}
	if forest[0].ID != 1 || forest[1].ID != 4 {
		t.Errorf("root order = [%d %d], want [1 4]", forest[0].ID, forest[1].ID)
	}
	if len(forest[0].Replies) != 1 || forest[0].Replies[0].ID != 2 {
		t.Fatalf("comment 1 should have reply 2, got %+v", forest[0].Replies)
	}
	if len(forest[0].Replies[0].Replies) != 1 || forest[0].Replies[0].Replies[0].ID != 3 {
		t.Errorf("comment 2 should have reply 3")
	}
}

func TestBuildCommentTree_PreservesInputOrder(t *testing.T) {
	// Roots and sibling replies must come out in input (creation) order
	comments := []model.Comment{
		{ID: 10},
		{ID: 11, ParentID: ptr(10)},
		{ID: 12, ParentID: ptr(10)},
		{ID: 13},
		{ID: 14, ParentID: ptr(10)},
	}

	forest := BuildCommentTree(comments)

	if got := flattenForest(forest); len(got) != 5 {
		t.Fatalf("flattened = %v, want all 5 ids", got)
	}
	replies := forest[0].Replies
	if replies[0].ID != 11 || replies[1].ID != 12 || replies[2].ID != 14 {
		t.Errorf("reply order = [%d %d %d], want [11 12 14]",
			replies[0].ID, replies[1].ID, replies[2].ID)
	}
}

func TestBuildCommentTree_AllIDsPresentWhenParentsResolve(t *testing.T) {
	comments := []model.Comment{
		{ID: 1},
		{ID: 2, ParentID: ptr(1)},
		{ID: 3, ParentID: ptr(1)},
		{ID: 4, ParentID: ptr(3)},
		{ID: 5},
	}

	got := flattenForest(BuildCommentTree(comments))

	seen := make(map[int64]bool, len(got))
	for _, id := range got {
		seen[id] = true
	}
	for _, c := range comments {
		if !seen[c.ID] {
			t.Errorf("comment %d missing from forest", c.ID)
		}
	}
	if len(got) != len(comments) {
		t.Errorf("forest has %d nodes, want %d", len(got), len(comments))
	}
}

func TestBuildCommentTree_DropsOrphanedSubtrees(t *testing.T) {
	// Comment 2's parent (99) is gone: 2 and everything under it disappear
	// from the forest even though the rows still exist.
	comments := []model.Comment{
		{ID: 1},
		{ID: 2, ParentID: ptr(99)},
		{ID: 3, ParentID: ptr(2)},
	}

	forest := BuildCommentTree(comments)

	if len(forest) != 1 || forest[0].ID != 1 {
		t.Fatalf("forest = %v, want only root 1", flattenForest(forest))
	}
	if len(forest[0].Replies) != 0 {
		t.Errorf("root 1 should have no replies, got %d", len(forest[0].Replies))
	}
}

func TestBuildCommentTree_EmptyInput(t *testing.T) {
	forest := BuildCommentTree(nil)
	if forest == nil {
		t.Fatal("forest should be an empty slice, not nil, so it encodes as []")
	}
	if len(forest) != 0 {
		t.Errorf("forest = %v, want empty", forest)
	}
}

// =============================================================================
// CREATE
// =============================================================================

func TestCommentService_Create_SnapshotsAuthor(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	commentRepo := &mockCommentRepository{}
	svc := NewCommentService(commentRepo, userRepoWithUser(author), nil)

	comment, err := svc.Create(context.Background(), "m1", 7, model.CreateCommentRequest{
		Content: "  great film  ",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if comment.Author == nil || comment.Author.Username != "moviebuff" {
		t.Errorf("author = %+v, want snapshot of moviebuff", comment.Author)
	}
	if comment.Content != "great film" {
		t.Errorf("content = %q, want trimmed %q", comment.Content, "great film")
	}
}

func TestCommentService_Create_Validation(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	svc := NewCommentService(&mockCommentRepository{}, userRepoWithUser(author), nil)

	cases := []struct {
		name    string
		movieID string
		content string
		wantErr error
	}{
		{"empty movie id", "", "hello", model.ErrMovieIDRequired},
		{"empty content", "m1", "", model.ErrContentRequired},
		{"whitespace content", "m1", "   \n\t ", model.ErrContentRequired},
		{"content too long", "m1", strings.Repeat("a", model.MaxCommentLength+1), model.ErrContentTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.movieID, 7, model.CreateCommentRequest{Content: tc.content})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCommentService_Create_RejectsCrossMovieParent(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, MovieID: "other-movie", UserID: 3}, nil
		},
	}
	svc := NewCommentService(commentRepo, userRepoWithUser(author), nil)

	_, err := svc.Create(context.Background(), "m1", 7, model.CreateCommentRequest{
		Content:  "reply",
		ParentID: ptr(42),
	})
	if !errors.Is(err, model.ErrParentMismatch) {
		t.Errorf("err = %v, want ErrParentMismatch", err)
	}
}

func TestCommentService_Create_UnknownParent(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	svc := NewCommentService(&mockCommentRepository{}, userRepoWithUser(author), nil)

	_, err := svc.Create(context.Background(), "m1", 7, model.CreateCommentRequest{
		Content:  "reply",
		ParentID: ptr(404),
	})
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("err = %v, want ErrCommentNotFound", err)
	}
}

func TestCommentService_Create_PublishesReplyEvent(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	parent := &model.Comment{ID: 42, MovieID: "m1", UserID: 3}
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			if commentID == parent.ID {
				return parent, nil
			}
			return nil, model.ErrCommentNotFound
		},
	}
	pub := &mockPublisher{}
	svc := NewCommentService(commentRepo, userRepoWithUser(author), pub)

	_, err := svc.Create(context.Background(), "m1", 7, model.CreateCommentRequest{
		Content:  "reply",
		ParentID: ptr(42),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	event := pub.events[0]
	if event.Type != queue.EventCommentReplied {
		t.Errorf("event type = %q, want %q", event.Type, queue.EventCommentReplied)
	}
	if event.RecipientID != parent.UserID {
		t.Errorf("recipient = %d, want parent author %d", event.RecipientID, parent.UserID)
	}
}

func TestCommentService_Create_TopLevelPublishesNothing(t *testing.T) {
	author := &model.User{ID: 7, Username: "moviebuff"}
	pub := &mockPublisher{}
	svc := NewCommentService(&mockCommentRepository{}, userRepoWithUser(author), pub)

	if _, err := svc.Create(context.Background(), "m1", 7, model.CreateCommentRequest{Content: "first"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for a top-level comment, want 0", len(pub.events))
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestCommentService_Delete_OwnerOnly(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, MovieID: "m1", UserID: 3}, nil
		},
	}
	svc := NewCommentService(commentRepo, &mockUserRepository{}, nil)

	err := svc.Delete(context.Background(), 42, 7)
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Errorf("err = %v, want ErrNotCommentOwner", err)
	}
	if len(commentRepo.deleteCalls) != 0 {
		t.Error("delete should not reach the store for a non-owner")
	}
}

func TestCommentService_Delete_UnknownIDIsNoOp(t *testing.T) {
	commentRepo := &mockCommentRepository{}
	svc := NewCommentService(commentRepo, &mockUserRepository{}, nil)

	// Two deletes of a gone id both succeed without touching the store
	for i := 0; i < 2; i++ {
		if err := svc.Delete(context.Background(), 404, 7); err != nil {
			t.Fatalf("delete #%d: expected no error, got: %v", i+1, err)
		}
	}
	if len(commentRepo.deleteCalls) != 0 {
		t.Errorf("store delete called %d times, want 0", len(commentRepo.deleteCalls))
	}
}

func TestCommentService_Delete_Success(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, MovieID: "m1", UserID: 7}, nil
		},
		deleteWithRepliesFn: func(ctx context.Context, commentID int64) (int64, error) {
			return 3, nil // the comment and two direct replies
		},
	}
	svc := NewCommentService(commentRepo, &mockUserRepository{}, nil)

	if err := svc.Delete(context.Background(), 42, 7); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(commentRepo.deleteCalls) != 1 || commentRepo.deleteCalls[0] != 42 {
		t.Errorf("delete calls = %v, want [42]", commentRepo.deleteCalls)
	}
}

// =============================================================================
// TOGGLE LIKE
// =============================================================================

func TestCommentService_ToggleLike_FlipsBothWays(t *testing.T) {
	liked := make(map[int64]bool)
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, MovieID: "m1", UserID: 3}, nil
		},
		addLikeFn: func(ctx context.Context, commentID, userID int64) (bool, error) {
			if liked[userID] {
				return false, nil
			}
			liked[userID] = true
			return true, nil
		},
		removeLikeFn: func(ctx context.Context, commentID, userID int64) (bool, error) {
			delete(liked, userID)
			return true, nil
		},
		countLikesFn: func(ctx context.Context, commentID int64) (int, error) {
			return len(liked), nil
		},
	}
	actor := &model.User{ID: 7, Username: "moviebuff"}
	pub := &mockPublisher{}
	svc := NewCommentService(commentRepo, userRepoWithUser(actor), pub)

	first, err := svc.ToggleLike(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || first.LikesCount != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", first)
	}

	second, err := svc.ToggleLike(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || second.LikesCount != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", second)
	}

	// Only the like direction notifies
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventCommentLiked {
		t.Errorf("events = %+v, want one CommentLiked", pub.events)
	}
}

func TestCommentService_ToggleLike_UnknownComment(t *testing.T) {
	svc := NewCommentService(&mockCommentRepository{}, &mockUserRepository{}, nil)

	_, err := svc.ToggleLike(context.Background(), 404, 7)
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("err = %v, want ErrCommentNotFound", err)
	}
}

// =============================================================================
// LIST
// =============================================================================

func TestCommentService_ListByMovieID(t *testing.T) {
	commentRepo := &mockCommentRepository{
		listByMovieIDFn: func(ctx context.Context, movieID string, viewerID int64) ([]model.Comment, error) {
			return []model.Comment{
				{ID: 1, MovieID: movieID, LikesCount: 2, LikedByViewer: viewerID == 7},
				{ID: 2, MovieID: movieID, ParentID: ptr(1)},
			}, nil
		},
	}
	svc := NewCommentService(commentRepo, &mockUserRepository{}, nil)

	resp, err := svc.ListByMovieID(context.Background(), "m1", 7)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(resp.Comments) != 2 {
		t.Errorf("flat list has %d comments, want 2", len(resp.Comments))
	}
	if len(resp.Tree) != 1 || len(resp.Tree[0].Replies) != 1 {
		t.Errorf("tree should be one root with one reply")
	}
	if !resp.Comments[0].LikedByViewer {
		t.Error("viewer 7's like flag should be set")
	}
}
