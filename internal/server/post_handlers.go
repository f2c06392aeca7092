package server

import (
	"github.com/gofiber/fiber/v2"

	"numbertalk/internal/models"
	"numbertalk/internal/notifications"
	"numbertalk/internal/service"
)

type postRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// GetPosts handles GET /api/posts
// @Summary List posts with their comment trees
// @Tags posts
// @Produce json
// @Success 200 {object} map[string][]models.PostNode
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(data(posts))
}

// GetPost handles GET /api/posts/:id
// @Summary Get one post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]models.PostNode
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(data(post))
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]models.PostNode
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if !parseBody(c, &req) {
		return nil
	}

	in := service.CreatePostInput{}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}

	post, err := s.postService.CreatePost(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventPostCreated, post)
	return c.Status(fiber.StatusCreated).JSON(data(post))
}

// UpdatePost handles PATCH and PUT /api/posts/:id
// @Summary Edit a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]models.PostNode
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req postRequest
	if !parseBody(c, &req) {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), actorFrom(c), service.UpdatePostInput{
		PostID:  c.Params("id"),
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventPostUpdated, post)
	return c.JSON(data(post))
}
