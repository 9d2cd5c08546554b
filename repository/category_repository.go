package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"value-helper/db"
	"value-helper/models"
	"value-helper/utils"
)

// CategoryRepository reads the category catalogue from PostgreSQL
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// Ensure CategoryRepository implements CategoryRepositoryInterface
var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

const categorySchema = `
	CREATE TABLE IF NOT EXISTS categories (
		value      TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		units      TEXT[] NOT NULL DEFAULT '{}',
		sort_order INT NOT NULL DEFAULT 0
	)
`

// EnsureSchema creates the categories table and seeds it with the default catalogue
// when it is empty
func (r *CategoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := db.DB.ExecContext(ctx, categorySchema); err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}

	var count int
	if err := db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, category := range DefaultCategories() {
		_, err := db.DB.ExecContext(ctx,
			`INSERT INTO categories (value, label, units, sort_order) VALUES ($1, $2, string_to_array($3, ','), $4) ON CONFLICT (value) DO NOTHING`,
			category.Value, category.Label, strings.Join(category.Units, ","), i)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Value, err)
		}
	}
	slog.Info("🌱 Seeded default categories", "count", len(DefaultCategories()))
	return nil
}

// List retrieves every category in display order
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT value, label, array_to_string(units, ',')
		FROM categories
		ORDER BY sort_order ASC, value ASC
	`)
	if err != nil {
		slog.Error("❌ Error querying categories", "error", err)
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetByValue retrieves one category by value or alias
func (r *CategoryRepository) GetByValue(ctx context.Context, value string) (*models.Category, error) {
	tag := utils.MapCategoryToTag(value)
	row := db.DB.QueryRowContext(ctx, `
		SELECT value, label, array_to_string(units, ',')
		FROM categories
		WHERE value = $1
	`, tag)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, value)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (models.Category, error) {
	var category models.Category
	var units string
	if err := s.Scan(&category.Value, &category.Label, &units); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category, err
		}
		return category, fmt.Errorf("failed to scan category: %w", err)
	}
	category.Units = splitUnits(units)
	return category, nil
}

func splitUnits(joined string) []string {
	units := []string{}
	for _, unit := range strings.Split(joined, ",") {
		if unit = strings.TrimSpace(unit); unit != "" {
			units = append(units, unit)
		}
	}
	return units
}
