package repository

import (
	"context"
	"errors"

	"value-helper/models"
)

// ErrCategoryNotFound is returned when no category has the requested value
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepositoryInterface defines the contract for category catalogue operations
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByValue(ctx context.Context, value string) (*models.Category, error)
}
