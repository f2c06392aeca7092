package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numbertalk/internal/calc"
	"numbertalk/internal/models"
)

func num(v float64) models.Number { return models.Number{Value: v, Set: true} }

// memoryCalcRepo keeps created rows so GetByID can return them.
func memoryCalcRepo(rows map[string]*models.Calculation) *calcRepoStub {
	repo := noopCalcRepo()
	repo.createFn = func(_ context.Context, c *models.Calculation) error {
		c.ID = uuid.NewString()
		if c.ParentID == nil {
			c.RootID = c.ID
		}
		rows[c.ID] = c
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id string) (*models.Calculation, error) {
		c, ok := rows[id]
		if !ok {
			return nil, models.NewNotFoundError("Calculation", id)
		}
		return c, nil
	}
	return repo
}

func TestDiscussionService_StartDiscussion(t *testing.T) {
	t.Parallel()

	rows := map[string]*models.Calculation{}
	svc := NewDiscussionService(memoryCalcRepo(rows), 0)
	userID := uuid.NewString()

	node, err := svc.StartDiscussion(context.Background(), registered(userID), StartDiscussionInput{StartingNumber: num(42)})
	require.NoError(t, err)
	assert.Equal(t, node.ID, node.RootID)
	assert.Nil(t, node.ParentID)
	assert.Nil(t, node.Operation)
	assert.Nil(t, node.RightOperand)
	assert.InDelta(t, 42.0, node.Result, 1e-9)
	assert.NotNil(t, node.Children)

	_, err = svc.StartDiscussion(context.Background(), registered(userID), StartDiscussionInput{})
	assertValidationError(t, err)
}

func TestDiscussionService_ApplyOperation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rows := map[string]*models.Calculation{}
	svc := NewDiscussionService(memoryCalcRepo(rows), 0)
	actor := registered(uuid.NewString())

	root, err := svc.StartDiscussion(ctx, actor, StartDiscussionInput{StartingNumber: num(10)})
	require.NoError(t, err)

	step, err := svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: root.ID, Operation: "multiply", RightOperand: num(3)})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, step.Result, 1e-9)
	assert.Equal(t, root.ID, step.RootID)
	require.NotNil(t, step.ParentID)
	assert.Equal(t, root.ID, *step.ParentID)
	require.NotNil(t, step.Operation)
	assert.Equal(t, "multiply", *step.Operation)

	deeper, err := svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: step.ID, Operation: "subtract", RightOperand: num(0.5)})
	require.NoError(t, err)
	assert.InDelta(t, 29.5, deeper.Result, 1e-9)
	assert.Equal(t, root.ID, deeper.RootID, "root id is copied down the chain")
}

func TestDiscussionService_ApplyOperation_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	actor := registered(uuid.NewString())

	t.Run("division by zero writes nothing", func(t *testing.T) {
		t.Parallel()
		rows := map[string]*models.Calculation{}
		svc := NewDiscussionService(memoryCalcRepo(rows), 0)
		root, err := svc.StartDiscussion(ctx, actor, StartDiscussionInput{StartingNumber: num(1)})
		require.NoError(t, err)

		_, err = svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: root.ID, Operation: "divide", RightOperand: num(0)})
		assertAppError(t, err, models.CodeDivisionByZero)
		assert.ErrorIs(t, err, calc.ErrDivisionByZero)
		assert.Len(t, rows, 1)
	})

	t.Run("unsupported operation", func(t *testing.T) {
		t.Parallel()
		svc := NewDiscussionService(noopCalcRepo(), 0)
		_, err := svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: uuid.NewString(), Operation: "modulo", RightOperand: num(2)})
		assertAppError(t, err, models.CodeUnsupportedOperation)
	})

	t.Run("missing operand", func(t *testing.T) {
		t.Parallel()
		svc := NewDiscussionService(noopCalcRepo(), 0)
		_, err := svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: uuid.NewString(), Operation: "add"})
		assertValidationError(t, err)
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		svc := NewDiscussionService(memoryCalcRepo(map[string]*models.Calculation{}), 0)
		_, err := svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: uuid.NewString(), Operation: "add", RightOperand: num(1)})
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("overflow", func(t *testing.T) {
		t.Parallel()
		rows := map[string]*models.Calculation{}
		svc := NewDiscussionService(memoryCalcRepo(rows), 0)
		root, err := svc.StartDiscussion(ctx, actor, StartDiscussionInput{StartingNumber: num(1e308)})
		require.NoError(t, err)
		_, err = svc.ApplyOperation(ctx, actor, ApplyOperationInput{ParentID: root.ID, Operation: "multiply", RightOperand: num(10)})
		assertValidationError(t, err)
	})
}

func TestDiscussionService_ListDiscussions(t *testing.T) {
	t.Parallel()

	r1, r2, s1 := uuid.NewString(), uuid.NewString(), uuid.NewString()
	op := "add"
	repo := noopCalcRepo()
	repo.listFn = func(_ context.Context) ([]*models.Calculation, error) {
		return []*models.Calculation{
			{ID: r1, RootID: r1, Result: 1},
			{ID: r2, RootID: r2, Result: 2},
			{ID: s1, RootID: r1, ParentID: &r1, Operation: &op, Result: 3},
		}, nil
	}

	svc := NewDiscussionService(repo, 0)
	nodes, err := svc.ListDiscussions(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, r1, nodes[0].ID)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, s1, nodes[0].Children[0].ID)
	assert.Empty(t, nodes[1].Children)
}
