package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numbertalk/internal/models"
)

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.NewString()
	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), 0)

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, registered(userID), CreateCommentInput{PostID: uuid.NewString(), Content: " "})
		assertValidationError(t, err)
	})

	t.Run("parent id must be a uuid", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, registered(userID), CreateCommentInput{
			PostID:   uuid.NewString(),
			ParentID: strPtr("abc"),
			Content:  "hi",
		})
		assertValidationError(t, err)
	})
}

func TestCommentService_CreateComment_PostMissing(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
		t.Fatal("parent looked up before the post")
		return nil, nil
	}

	svc := NewCommentService(commentRepo, postRepo, 0)
	_, err := svc.CreateComment(context.Background(), registered(uuid.NewString()), CreateCommentInput{
		PostID:   uuid.NewString(),
		ParentID: strPtr(uuid.NewString()),
		Content:  "hi",
	})
	assertAppError(t, err, models.CodeNotFound)
}

func TestCommentService_CreateComment_CrossRootParent(t *testing.T) {
	t.Parallel()

	postA, postB := uuid.NewString(), uuid.NewString()
	parentID := uuid.NewString()

	created := false
	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id string) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: postB}, nil
	}
	commentRepo.createFn = func(_ context.Context, _ *models.Comment) error {
		created = true
		return nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), 0)
	_, err := svc.CreateComment(context.Background(), registered(uuid.NewString()), CreateCommentInput{
		PostID:   postA,
		ParentID: &parentID,
		Content:  "hi",
	})
	assertAppError(t, err, models.CodeCrossRootViolation)
	assert.ErrorIs(t, err, models.ErrCrossRootViolation)
	assert.False(t, created)
}

func TestCommentService_CreateComment_Reply(t *testing.T) {
	t.Parallel()

	postID, parentID := uuid.NewString(), uuid.NewString()
	userID := uuid.NewString()
	var stored *models.Comment

	commentRepo := noopCommentRepo()
	commentRepo.getByIDFn = func(_ context.Context, id string) (*models.Comment, error) {
		if id == parentID {
			return &models.Comment{ID: id, PostID: postID}, nil
		}
		c := *stored
		c.CreatedBy = &models.User{ID: userID, Username: "ada"}
		return &c, nil
	}
	commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = uuid.NewString()
		stored = c
		return nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), 0)
	node, err := svc.CreateComment(context.Background(), registered(userID), CreateCommentInput{
		PostID:   postID,
		ParentID: &parentID,
		Content:  "reply",
	})
	require.NoError(t, err)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, parentID, *node.ParentID)
	assert.Equal(t, postID, node.PostID)
	assert.Equal(t, "ada", node.CreatedBy.Username)
	assert.NotNil(t, node.Replies)
	require.NotNil(t, stored.CreatedByID)
	assert.Equal(t, userID, *stored.CreatedByID)
}

func TestCommentService_ListComments(t *testing.T) {
	t.Parallel()

	postID := uuid.NewString()
	a, b, c := uuid.NewString(), uuid.NewString(), uuid.NewString()

	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, id string) ([]*models.Comment, error) {
		assert.Equal(t, postID, id)
		return []*models.Comment{
			{ID: a, PostID: postID, Content: "a"},
			{ID: b, PostID: postID, ParentID: &a, Content: "b"},
			{ID: c, PostID: postID, ParentID: &b, Content: "c"},
		}, nil
	}

	svc := NewCommentService(commentRepo, noopPostRepo(), 0)
	nodes, err := svc.ListComments(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Replies, 1)
	require.Len(t, nodes[0].Replies[0].Replies, 1)
	assert.Equal(t, c, nodes[0].Replies[0].Replies[0].ID)
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ownerID := uuid.NewString()
	postID := uuid.NewString()
	commentID, replyID := uuid.NewString(), uuid.NewString()

	newRepo := func(updated *bool) *commentRepoStub {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: postID, CreatedByID: &ownerID, Content: "old"}, nil
		}
		repo.updateContentFn = func(_ context.Context, _, _ string) error {
			*updated = true
			return nil
		}
		repo.listByPostFn = func(_ context.Context, _ string) ([]*models.Comment, error) {
			return []*models.Comment{
				{ID: commentID, PostID: postID},
				{ID: replyID, PostID: postID, ParentID: &commentID},
			}, nil
		}
		return repo
	}

	t.Run("owner keeps replies", func(t *testing.T) {
		t.Parallel()
		var updated bool
		svc := NewCommentService(newRepo(&updated), noopPostRepo(), 0)
		node, err := svc.UpdateComment(ctx, registered(ownerID), UpdateCommentInput{CommentID: commentID, Content: "new"})
		require.NoError(t, err)
		assert.True(t, updated)
		require.Len(t, node.Replies, 1)
		assert.Equal(t, replyID, node.Replies[0].ID)
	})

	t.Run("other user is denied", func(t *testing.T) {
		t.Parallel()
		var updated bool
		svc := NewCommentService(newRepo(&updated), noopPostRepo(), 0)
		_, err := svc.UpdateComment(ctx, registered(uuid.NewString()), UpdateCommentInput{CommentID: commentID, Content: "new"})
		assertAppError(t, err, models.CodePermissionDenied)
		assert.False(t, updated)
	})

	t.Run("admin may edit", func(t *testing.T) {
		t.Parallel()
		var updated bool
		svc := NewCommentService(newRepo(&updated), noopPostRepo(), 0)
		_, err := svc.UpdateComment(ctx, admin(uuid.NewString()), UpdateCommentInput{CommentID: commentID, Content: "new"})
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("comment on another post", func(t *testing.T) {
		t.Parallel()
		var updated bool
		svc := NewCommentService(newRepo(&updated), noopPostRepo(), 0)
		_, err := svc.UpdateComment(ctx, registered(ownerID), UpdateCommentInput{
			PostID:    uuid.NewString(),
			CommentID: commentID,
			Content:   "new",
		})
		assertAppError(t, err, models.CodeNotFound)
		assert.False(t, updated)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		var updated bool
		svc := NewCommentService(newRepo(&updated), noopPostRepo(), 0)
		_, err := svc.UpdateComment(ctx, registered(ownerID), UpdateCommentInput{CommentID: commentID})
		assertValidationError(t, err)
	})
}
