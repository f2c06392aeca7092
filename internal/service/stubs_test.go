package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numbertalk/internal/authz"
	"numbertalk/internal/models"
	"numbertalk/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, string) (*models.Post, error)
	listFn    func(context.Context) ([]*models.Post, error)
	updateFn  func(context.Context, string, repository.PostUpdate) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, id string, update repository.PostUpdate) error {
	return s.updateFn(ctx, id, update)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context) ([]*models.Post, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ string, _ repository.PostUpdate) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, string) (*models.Comment, error)
	listByPostFn    func(context.Context, string) ([]*models.Comment, error)
	listByPostsFn   func(context.Context, []string) ([]*models.Comment, error)
	updateContentFn func(context.Context, string, string) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListByPosts(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	return s.listByPostsFn(ctx, postIDs)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id, content string) error {
	return s.updateContentFn(ctx, id, content)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn:    func(_ context.Context, _ string) ([]*models.Comment, error) { return nil, nil },
		listByPostsFn:   func(_ context.Context, _ []string) ([]*models.Comment, error) { return nil, nil },
		updateContentFn: func(_ context.Context, _, _ string) error { return nil },
	}
}

// calcRepoStub is a stub for repository.CalculationRepository.
type calcRepoStub struct {
	createFn  func(context.Context, *models.Calculation) error
	getByIDFn func(context.Context, string) (*models.Calculation, error)
	listFn    func(context.Context) ([]*models.Calculation, error)
}

func (s *calcRepoStub) Create(ctx context.Context, c *models.Calculation) error {
	return s.createFn(ctx, c)
}
func (s *calcRepoStub) GetByID(ctx context.Context, id string) (*models.Calculation, error) {
	return s.getByIDFn(ctx, id)
}
func (s *calcRepoStub) List(ctx context.Context) ([]*models.Calculation, error) {
	return s.listFn(ctx)
}

func noopCalcRepo() *calcRepoStub {
	return &calcRepoStub{
		createFn:  func(_ context.Context, _ *models.Calculation) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Calculation, error) { return &models.Calculation{ID: id}, nil },
		listFn:    func(_ context.Context) ([]*models.Calculation, error) { return nil, nil },
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func strPtr(s string) *string { return &s }

func registered(id string) authz.Actor {
	return authz.Actor{ID: id, Username: "user-" + id[:4], Role: authz.RoleRegistered}
}

func admin(id string) authz.Actor {
	return authz.Actor{ID: id, Username: "admin", Role: authz.RoleAdmin}
}
