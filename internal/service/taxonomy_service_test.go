package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyService_CreateCategory(t *testing.T) {
	t.Parallel()

	t.Run("derives slug from name", func(t *testing.T) {
		t.Parallel()
		var created *models.Category
		repo := noopCategoryRepo()
		repo.createFn = func(_ context.Context, category *models.Category) error {
			created = category
			return nil
		}
		svc := NewTaxonomyService(repo, noopTagRepo())

		category, err := svc.CreateCategory(context.Background(), "  Web Development ")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "Web Development", category.Name)
		assert.Equal(t, "web-development", category.Slug)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewTaxonomyService(noopCategoryRepo(), noopTagRepo())
		_, err := svc.CreateCategory(context.Background(), "   ")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("duplicate surfaces conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopCategoryRepo()
		repo.createFn = func(_ context.Context, _ *models.Category) error {
			return models.NewConflictError("Category already exists")
		}
		svc := NewTaxonomyService(repo, noopTagRepo())
		_, err := svc.CreateCategory(context.Background(), "Go")
		assertAppErrorCode(t, err, models.CodeConflict)
	})
}

func TestTaxonomyService_CreateTag(t *testing.T) {
	t.Parallel()

	t.Run("derives slug from name", func(t *testing.T) {
		t.Parallel()
		var created *models.Tag
		repo := noopTagRepo()
		repo.createFn = func(_ context.Context, tag *models.Tag) error {
			created = tag
			return nil
		}
		svc := NewTaxonomyService(noopCategoryRepo(), repo)

		tag, err := svc.CreateTag(context.Background(), "Deep Dive")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "deep-dive", tag.Slug)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewTaxonomyService(noopCategoryRepo(), noopTagRepo())
		_, err := svc.CreateTag(context.Background(), "")
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestTaxonomyService_DeleteMissingCategory(t *testing.T) {
	t.Parallel()

	repo := noopCategoryRepo()
	repo.deleteFn = func(_ context.Context, slug string) error {
		return models.NewNotFoundError("Category", slug)
	}
	svc := NewTaxonomyService(repo, noopTagRepo())

	err := svc.DeleteCategory(context.Background(), "missing")
	assertAppErrorCode(t, err, models.CodeNotFound)
}
