package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"numbertalk/internal/authz"
	"numbertalk/internal/cache"
	"numbertalk/internal/forest"
	"numbertalk/internal/models"
	"numbertalk/internal/observability"
	"numbertalk/internal/repository"
	"numbertalk/internal/validation"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	cacheTTL    time.Duration
}

type CreatePostInput struct {
	Title   string
	Content string
}

// UpdatePostInput carries a partial edit; nil fields are left unchanged.
type UpdatePostInput struct {
	PostID  string
	Title   *string
	Content *string
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, cacheTTL time.Duration) *PostService {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultBoardTTL
	}
	return &PostService{postRepo: postRepo, commentRepo: commentRepo, cacheTTL: cacheTTL}
}

// ListPosts returns every post newest first with its full comment forest.
// All comments are read in a single scan and grouped per post.
func (s *PostService) ListPosts(ctx context.Context) ([]models.PostNode, error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ListPosts")
	var nodes []models.PostNode
	err := cache.Aside(ctx, cache.PostsListKey, &nodes, s.cacheTTL, func() error {
		posts, err := s.postRepo.List(ctx)
		if err != nil {
			return err
		}

		ids := make([]string, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		comments, err := s.commentRepo.ListByPosts(ctx, ids)
		if err != nil {
			return err
		}
		byPost := forest.GroupBy(comments, func(c *models.Comment) string { return c.PostID })

		nodes = make([]models.PostNode, 0, len(posts))
		for _, p := range posts {
			nodes = append(nodes, newPostNode(p, byPost[p.ID]))
		}
		observability.ForestNodes.WithLabelValues("posts").Observe(float64(len(posts) + len(comments)))
		return nil
	})
	span.AddAttributes(attribute.Int("board.posts", len(nodes)))
	span.End(err)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.PostNode, error) {
	if !isID(postID) {
		return nil, models.NewNotFoundError("Post", postID)
	}

	var node models.PostNode
	err := cache.Aside(ctx, cache.PostKey(postID), &node, s.cacheTTL, func() error {
		post, err := s.postRepo.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		comments, err := s.commentRepo.ListByPost(ctx, postID)
		if err != nil {
			return err
		}
		node = newPostNode(post, comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *PostService) CreatePost(ctx context.Context, actor authz.Actor, in CreatePostInput) (*models.PostNode, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		CreatedByID: ownerID(actor),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("post", "create").Inc()

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	node := newPostNode(created, nil)
	return &node, nil
}

// UpdatePost edits a post owned by actor, or any post when actor is an admin.
func (s *PostService) UpdatePost(ctx context.Context, actor authz.Actor, in UpdatePostInput) (*models.PostNode, error) {
	if in.Title == nil && in.Content == nil {
		return nil, models.NewValidationError("At least one of title or content is required")
	}
	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Content != nil {
		if err := validation.ValidateContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if !isID(in.PostID) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.OwnerOf(post.CreatedByID)); err != nil {
		return nil, models.NewPermissionDeniedError("You can only edit your own posts")
	}

	if err := s.postRepo.Update(ctx, in.PostID, repository.PostUpdate{Title: in.Title, Content: in.Content}); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("post", "update").Inc()

	updated, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	node := newPostNode(updated, comments)
	return &node, nil
}

// ownerID is nil for an anonymous actor so the row stays unowned.
func ownerID(actor authz.Actor) *string {
	if actor.ID == "" {
		return nil
	}
	id := actor.ID
	return &id
}
