package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/database/databasetest"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	svc := NewCategoryService(databasetest.Open(t))
	ctx := context.Background()
	seeds := []dto.CategorySeed{
		{Name: "Plumbing", Description: "Water and drains"},
		{Name: "Electrical"},
		{Name: "  "},
	}

	n, err := svc.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Seed(ctx, append(seeds, dto.CategorySeed{Name: "Internet"}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Electrical", cats[0].Name)
	assert.Equal(t, "Internet", cats[1].Name)
	assert.Equal(t, "Plumbing", cats[2].Name)
	assert.Equal(t, "Water and drains", cats[2].Description)
}

func TestLoadCategoriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categories":[{"name":"Hostel","description":"Rooms"}]}`), 0o600))

	seeds, err := LoadCategoriesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []dto.CategorySeed{{Name: "Hostel", Description: "Rooms"}}, seeds)

	_, err = LoadCategoriesFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
