package service

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"numbertalk/internal/authz"
	"numbertalk/internal/cache"
	"numbertalk/internal/calc"
	"numbertalk/internal/models"
	"numbertalk/internal/observability"
	"numbertalk/internal/repository"
)

type DiscussionService struct {
	calcRepo repository.CalculationRepository
	cacheTTL time.Duration
}

type StartDiscussionInput struct {
	StartingNumber models.Number
}

type ApplyOperationInput struct {
	ParentID     string
	Operation    string
	RightOperand models.Number
}

func NewDiscussionService(calcRepo repository.CalculationRepository, cacheTTL time.Duration) *DiscussionService {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultBoardTTL
	}
	return &DiscussionService{calcRepo: calcRepo, cacheTTL: cacheTTL}
}

// ListDiscussions returns every calculation tree, roots oldest first.
func (s *DiscussionService) ListDiscussions(ctx context.Context) ([]models.CalculationNode, error) {
	ctx, span := observability.StartSpan(ctx, "DiscussionService.ListDiscussions")
	var nodes []models.CalculationNode
	err := cache.Aside(ctx, cache.DiscussionsListKey, &nodes, s.cacheTTL, func() error {
		calcs, err := s.calcRepo.List(ctx)
		if err != nil {
			return err
		}
		nodes = calculationForest(calcs)
		return nil
	})
	span.AddAttributes(attribute.Int("board.discussions", len(nodes)))
	span.End(err)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// StartDiscussion records a new root calculation holding the starting number.
func (s *DiscussionService) StartDiscussion(ctx context.Context, actor authz.Actor, in StartDiscussionInput) (*models.CalculationNode, error) {
	if !in.StartingNumber.Set {
		return nil, models.NewValidationError("startingNumber is required")
	}

	root := &models.Calculation{
		Result:      in.StartingNumber.Value,
		CreatedByID: ownerID(actor),
	}
	if err := s.calcRepo.Create(ctx, root); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("calculation", "start").Inc()
	return s.node(ctx, root.ID)
}

// ApplyOperation appends a step computed from the parent's result.
func (s *DiscussionService) ApplyOperation(ctx context.Context, actor authz.Actor, in ApplyOperationInput) (*models.CalculationNode, error) {
	op, err := calc.ParseOperation(in.Operation)
	if err != nil {
		return nil, models.NewCalculationError(err)
	}
	if !in.RightOperand.Set {
		return nil, models.NewValidationError("rightOperand is required")
	}
	if !isID(in.ParentID) {
		return nil, models.NewNotFoundError("Calculation", in.ParentID)
	}

	parent, err := s.calcRepo.GetByID(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}

	result, err := calc.Apply(parent.Result, in.RightOperand.Value, op)
	if err != nil {
		return nil, models.NewCalculationError(err)
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, models.NewValidationError("Result is out of range")
	}

	tag := string(op)
	operand := in.RightOperand.Value
	step := &models.Calculation{
		RootID:       parent.RootID,
		ParentID:     &parent.ID,
		Operation:    &tag,
		RightOperand: &operand,
		Result:       result,
		CreatedByID:  ownerID(actor),
	}
	if err := s.calcRepo.Create(ctx, step); err != nil {
		return nil, err
	}
	observability.BoardWrites.WithLabelValues("calculation", "apply").Inc()
	return s.node(ctx, step.ID)
}

func (s *DiscussionService) node(ctx context.Context, id string) (*models.CalculationNode, error) {
	created, err := s.calcRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	node := models.NewCalculationNode(*created, nil)
	return &node, nil
}
