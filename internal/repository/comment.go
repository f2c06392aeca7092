package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"numbertalk/internal/cache"
	"numbertalk/internal/models"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	ListByPosts(ctx context.Context, postIDs []string) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, lookupError(err, "Comment", id)
	}
	return &comment, nil
}

// ListByPost returns the post's comments oldest first, all depths in one scan.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("post_id = ?", postID).
		Order(creationOrder).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListByPosts loads comments for many posts with a single query.
func (r *commentRepository) ListByPosts(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	if len(postIDs) == 0 {
		return []*models.Comment{}, nil
	}
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("post_id IN ?", postIDs).
		Order(creationOrder).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// UpdateContent rewrites the text only; post and parent links are fixed at creation.
func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "post_id").Where("id = ?", id).First(&comment).Error; err != nil {
		return lookupError(err, "Comment", id)
	}

	result := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}
