package service

import (
	"context"
	"time"

	"numbertalk/internal/authz"
	"numbertalk/internal/cache"
	"numbertalk/internal/models"
	"numbertalk/internal/observability"
	"numbertalk/internal/repository"
	"numbertalk/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cacheTTL    time.Duration
}

type CreateCommentInput struct {
	PostID   string
	ParentID *string
	Content  string
}

// UpdateCommentInput edits content only. PostID is optional; when set the
// comment must belong to that post.
type UpdateCommentInput struct {
	PostID    string
	CommentID string
	Content   string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, cacheTTL time.Duration) *CommentService {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultBoardTTL
	}
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, cacheTTL: cacheTTL}
}

// ListComments returns the reply forest of one post.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.CommentNode, error) {
	if !isID(postID) {
		return nil, models.NewNotFoundError("Post", postID)
	}

	var nodes []models.CommentNode
	err := cache.Aside(ctx, cache.CommentsKey(postID), &nodes, s.cacheTTL, func() error {
		if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
			return err
		}
		comments, err := s.commentRepo.ListByPost(ctx, postID)
		if err != nil {
			return err
		}
		nodes = commentForest(comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// CreateComment attaches a comment to a post, optionally as a reply.
// The parent must exist and belong to the same post; nothing is written otherwise.
func (s *CommentService) CreateComment(ctx context.Context, actor authz.Actor, in CreateCommentInput) (*models.CommentNode, error) {
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ParentID != nil {
		if err := validation.ValidateID("parentId", *in.ParentID); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if !isID(in.PostID) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewCrossRootError()
		}
	}

	comment := &models.Comment{
		PostID:      in.PostID,
		ParentID:    in.ParentID,
		Content:     in.Content,
		CreatedByID: ownerID(actor),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("comment", "create").Inc()

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	node := models.NewCommentNode(*created, nil)
	return &node, nil
}

// UpdateComment rewrites a comment's content for its owner or an admin.
func (s *CommentService) UpdateComment(ctx context.Context, actor authz.Actor, in UpdateCommentInput) (*models.CommentNode, error) {
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !isID(in.CommentID) {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if in.PostID != "" && comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}
	if err := authz.Authorize(actor, authz.OwnerOf(comment.CreatedByID)); err != nil {
		return nil, models.NewPermissionDeniedError("You can only edit your own comments")
	}

	if err := s.commentRepo.UpdateContent(ctx, in.CommentID, in.Content); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("comment", "update").Inc()

	updated, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	replies, err := s.repliesOf(ctx, updated)
	if err != nil {
		return nil, err
	}
	node := models.NewCommentNode(*updated, replies)
	return &node, nil
}

// repliesOf rebuilds the subtree below c from its post's comments.
func (s *CommentService) repliesOf(ctx context.Context, c *models.Comment) ([]models.CommentNode, error) {
	comments, err := s.commentRepo.ListByPost(ctx, c.PostID)
	if err != nil {
		return nil, err
	}
	for _, node := range flatten(commentForest(comments)) {
		if node.ID == c.ID {
			return node.Replies, nil
		}
	}
	return []models.CommentNode{}, nil
}

func flatten(nodes []models.CommentNode) []models.CommentNode {
	out := make([]models.CommentNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, flatten(n.Replies)...)
	}
	return out
}
