package server

import (
	"github.com/gofiber/fiber/v2"

	"numbertalk/internal/models"
	"numbertalk/internal/notifications"
	"numbertalk/internal/service"
)

// GetComments handles GET /api/posts/:id/comments
// @Summary Comment tree of a post
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string][]models.CommentNode
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(data(comments))
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post or reply to a comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 201 {object} map[string]models.CommentNode
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parentId"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), actorFrom(c), service.CreateCommentInput{
		PostID:   c.Params("id"),
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventCommentCreated, comment)
	return c.Status(fiber.StatusCreated).JSON(data(comment))
}

// UpdateComment handles PATCH and PUT on /api/comments/:id and
// /api/posts/:id/comments/:commentId. The nested form also checks that the
// comment belongs to the post.
// @Summary Edit a comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} map[string]models.CommentNode
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	in := service.UpdateCommentInput{CommentID: c.Params("id"), Content: req.Content}
	if commentID := c.Params("commentId"); commentID != "" {
		in.PostID = c.Params("id")
		in.CommentID = commentID
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventCommentUpdated, comment)
	return c.JSON(data(comment))
}
