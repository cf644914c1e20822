package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines persistence operations for blogs.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, limit, offset int) ([]*models.Blog, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]*models.Blog, error)
	ListByTag(ctx context.Context, tagID uint) ([]*models.Blog, error)
	ListRelated(ctx context.Context, excludeID uint, categoryIDs []uint, limit int) ([]*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	ReplaceCategories(ctx context.Context, blog *models.Blog, categories []models.Category) error
	ReplaceTags(ctx context.Context, blog *models.Blog, tags []models.Tag) error
	Delete(ctx context.Context, slug string) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository returns a new BlogRepository implementation.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create persists the blog together with its category and tag associations
// in a single transaction.
func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewConflictError("A blog with that title already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	normalized := strings.ToLower(slug)
	var blog models.Blog

	err := cache.Aside(ctx, cache.BlogKey(normalized), &blog, cache.BlogTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Categories").
			Preload("Tags").
			Preload("User").
			Where("slug = ?", normalized).
			First(&blog).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Blog", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	var blogs []*models.Blog
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

// ListByCategory returns every blog filed under the given category, newest
// first.
func (r *blogRepository) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Blog, error) {
	return r.listByJoin(ctx, "blog_categories", "category_id", categoryID)
}

// ListByTag returns every blog labeled with the given tag, newest first.
func (r *blogRepository) ListByTag(ctx context.Context, tagID uint) ([]*models.Blog, error) {
	return r.listByJoin(ctx, "blog_tags", "tag_id", tagID)
}

func (r *blogRepository) listByJoin(ctx context.Context, joinTable, joinColumn string, id uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Preload("User").
		Where("blogs.id IN (?)", r.db.
			Table(joinTable).
			Select("blog_id").
			Where(joinColumn+" = ?", id)).
		Order("created_at DESC").
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

// ListRelated returns blogs sharing at least one of the given categories,
// excluding the blog identified by excludeID.
func (r *blogRepository) ListRelated(ctx context.Context, excludeID uint, categoryIDs []uint, limit int) ([]*models.Blog, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var blogs []*models.Blog
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Preload("User").
		Where("blogs.id <> ?", excludeID).
		Where("blogs.id IN (?)", r.db.
			Table("blog_categories").
			Select("blog_id").
			Where("category_id IN ?", categoryIDs)).
		Order("created_at DESC").
		Limit(limit).
		Find(&blogs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	// Omit associations: category/tag sets are replaced explicitly via
	// ReplaceCategories/ReplaceTags only when the update carries them.
	if err := r.db.WithContext(ctx).
		Omit("Categories", "Tags", "User").
		Save(blog).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return models.NewConflictError("A blog with that title already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blog.Slug)
	return nil
}

func (r *blogRepository) ReplaceCategories(ctx context.Context, blog *models.Blog, categories []models.Category) error {
	if err := r.db.WithContext(ctx).Model(blog).Association("Categories").Replace(categories); err != nil {
		return models.NewInternalError(err)
	}
	blog.Categories = categories
	cache.InvalidateBlog(ctx, blog.Slug)
	return nil
}

func (r *blogRepository) ReplaceTags(ctx context.Context, blog *models.Blog, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(blog).Association("Tags").Replace(tags); err != nil {
		return models.NewInternalError(err)
	}
	blog.Tags = tags
	cache.InvalidateBlog(ctx, blog.Slug)
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, slug string) error {
	normalized := strings.ToLower(slug)
	result := r.db.WithContext(ctx).Where("slug = ?", normalized).Delete(&models.Blog{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Blog", slug)
	}
	cache.InvalidateBlog(ctx, normalized)
	return nil
}
