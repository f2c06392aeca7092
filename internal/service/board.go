// Package service holds the board's business rules between handlers and repositories.
package service

import (
	"github.com/google/uuid"

	"numbertalk/internal/forest"
	"numbertalk/internal/models"
	"numbertalk/internal/observability"
	"numbertalk/internal/render"
)

func commentID(c *models.Comment) string { return c.ID }

func commentParent(c *models.Comment) (string, bool) {
	if c.ParentID == nil {
		return "", false
	}
	return *c.ParentID, true
}

func calculationID(c *models.Calculation) string { return c.ID }

func calculationParent(c *models.Calculation) (string, bool) {
	if c.ParentID == nil {
		return "", false
	}
	return *c.ParentID, true
}

// commentForest nests creation-ordered comments of one post.
func commentForest(comments []*models.Comment) []models.CommentNode {
	roots := forest.Assemble(comments, commentID, commentParent)
	return forest.Map(roots, func(c *models.Comment, replies []models.CommentNode) models.CommentNode {
		return models.NewCommentNode(*c, replies)
	})
}

func calculationForest(calcs []*models.Calculation) []models.CalculationNode {
	roots := forest.Assemble(calcs, calculationID, calculationParent)
	observability.ForestNodes.WithLabelValues("discussions").Observe(float64(forest.Count(roots)))
	return forest.Map(roots, func(c *models.Calculation, children []models.CalculationNode) models.CalculationNode {
		return models.NewCalculationNode(*c, children)
	})
}

func newPostNode(p *models.Post, comments []*models.Comment) models.PostNode {
	return models.PostNode{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		ContentHTML: render.Markdown(p.Content),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
		CreatedBy:   models.AuthorOf(p.CreatedBy),
		Comments:    commentForest(comments),
	}
}

// isID reports whether s can name a stored row.
func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
