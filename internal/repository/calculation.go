package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"numbertalk/internal/cache"
	"numbertalk/internal/models"
)

// CalculationRepository stores starting numbers and the operations applied to them.
type CalculationRepository interface {
	Create(ctx context.Context, calc *models.Calculation) error
	GetByID(ctx context.Context, id string) (*models.Calculation, error)
	List(ctx context.Context) ([]*models.Calculation, error)
}

type calculationRepository struct {
	db *gorm.DB
}

func NewCalculationRepository(db *gorm.DB) CalculationRepository {
	return &calculationRepository{db: db}
}

func (r *calculationRepository) Create(ctx context.Context, calc *models.Calculation) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(calc).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDiscussions(ctx)
	return nil
}

func (r *calculationRepository) GetByID(ctx context.Context, id string) (*models.Calculation, error) {
	var calc models.Calculation
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&calc).Error; err != nil {
		return nil, lookupError(err, "Calculation", id)
	}
	return &calc, nil
}

// List returns every calculation oldest first.
func (r *calculationRepository) List(ctx context.Context) ([]*models.Calculation, error) {
	var calcs []*models.Calculation
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Order(creationOrder).
		Find(&calcs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return calcs, nil
}
