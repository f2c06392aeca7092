package server

import (
	"github.com/gofiber/fiber/v2"

	"numbertalk/internal/models"
	"numbertalk/internal/notifications"
	"numbertalk/internal/service"
)

// GetDiscussions handles GET /api/discussions
// @Summary List calculation trees
// @Tags discussions
// @Produce json
// @Success 200 {object} map[string][]models.CalculationNode
// @Router /discussions [get]
func (s *Server) GetDiscussions(c *fiber.Ctx) error {
	trees, err := s.discussionService.ListDiscussions(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(data(trees))
}

// CreateDiscussion handles POST /api/discussions
// @Summary Start a discussion with a number
// @Tags discussions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]models.CalculationNode
// @Failure 400 {object} models.ErrorResponse
// @Router /discussions [post]
func (s *Server) CreateDiscussion(c *fiber.Ctx) error {
	var req struct {
		StartingNumber models.Number `json:"startingNumber"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	node, err := s.discussionService.StartDiscussion(c.UserContext(), actorFrom(c), service.StartDiscussionInput{
		StartingNumber: req.StartingNumber,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventCalculationCreated, node)
	return c.Status(fiber.StatusCreated).JSON(data(node))
}

// ApplyOperation handles POST /api/discussions/:id/operations
// @Summary Apply an operation to a calculation
// @Tags discussions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Parent calculation ID"
// @Success 201 {object} map[string]models.CalculationNode
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /discussions/{id}/operations [post]
func (s *Server) ApplyOperation(c *fiber.Ctx) error {
	var req struct {
		Operation    string        `json:"operation"`
		RightOperand models.Number `json:"rightOperand"`
	}
	if !parseBody(c, &req) {
		return nil
	}

	node, err := s.discussionService.ApplyOperation(c.UserContext(), actorFrom(c), service.ApplyOperationInput{
		ParentID:     c.Params("id"),
		Operation:    req.Operation,
		RightOperand: req.RightOperand,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishBoardEvent(c.UserContext(), notifications.EventCalculationCreated, node)
	return c.Status(fiber.StatusCreated).JSON(data(node))
}
