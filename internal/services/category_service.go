package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/models"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// LoadCategoriesFile reads the seed file: {"categories": [{"name": ..., "description": ...}]}.
func LoadCategoriesFile(path string) ([]dto.CategorySeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file dto.CategoriesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	return file.Categories, nil
}

// Seed inserts categories whose name is not present yet. Existing rows are left alone.
func (s *CategoryService) Seed(ctx context.Context, seeds []dto.CategorySeed) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range seeds {
			name := strings.TrimSpace(seed.Name)
			if name == "" {
				continue
			}
			var count int64
			if err := tx.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check category %q: %w", name, err)
			}
			if count > 0 {
				continue
			}
			cat := models.Category{Name: name, Description: seed.Description}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		slog.Info("categories seeded", "created", created)
	}
	return created, nil
}
