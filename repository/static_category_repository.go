package repository

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"value-helper/models"
	"value-helper/utils"
)

// DefaultCategories returns the built-in catalogue
func DefaultCategories() []models.Category {
	return []models.Category{
		{Value: "food", Label: "🥩 Meat, eggs & produce", Units: []string{"kg", "g", "jin", "piece"}},
		{Value: "drinks", Label: "🥛 Milk & drinks", Units: []string{"ml", "L", "bottle"}},
		{Value: "beauty", Label: "🧴 Beauty & bath", Units: []string{"ml", "L", "g"}},
		{Value: "household", Label: "🏠 Household", Units: []string{"piece", "pack", "ml", "g"}},
	}
}

// StaticCategoryRepository serves a fixed, in-memory catalogue
type StaticCategoryRepository struct {
	categories []models.Category
}

// NewStaticCategoryRepository creates a repository over categories, or the defaults when empty
func NewStaticCategoryRepository(categories []models.Category) *StaticCategoryRepository {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &StaticCategoryRepository{categories: slices.Clone(categories)}
}

// Ensure StaticCategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*StaticCategoryRepository)(nil)

type categoryFile struct {
	Categories []models.Category `yaml:"categories"`
}

// LoadCategoriesFile reads a YAML catalogue of the form {categories: [{value, label, units}]}
func LoadCategoriesFile(path string) ([]models.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file %s: %w", path, err)
	}
	for i, category := range file.Categories {
		if category.Value == "" {
			return nil, fmt.Errorf("category %d in %s has no value", i+1, path)
		}
		for j, unit := range category.Units {
			file.Categories[i].Units[j] = utils.NormalizeUnit(unit)
		}
	}
	return file.Categories, nil
}

func (r *StaticCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(r.categories))
	for _, category := range r.categories {
		category.Units = slices.Clone(category.Units)
		out = append(out, category)
	}
	return out, nil
}

func (r *StaticCategoryRepository) GetByValue(ctx context.Context, value string) (*models.Category, error) {
	tag := utils.MapCategoryToTag(value)
	for _, category := range r.categories {
		if category.Value == tag {
			category.Units = slices.Clone(category.Units)
			return &category, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, value)
}
