package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"

	"github.com/google/uuid"
)

const (
	// minBodyLength is the minimum rich-text body length at creation.
	minBodyLength = 200

	defaultListLimit   = 10
	maxListLimit       = 100
	defaultRelatedSize = 3
)

// BlogService implements the blog authoring and publishing pipeline.
type BlogService struct {
	blogRepo       repository.BlogRepository
	categoryRepo   repository.CategoryRepository
	tagRepo        repository.TagRepository
	uploader       storage.Uploader
	appName        string
	maxUploadBytes int64
}

// PhotoInput carries an uploaded photo from the multipart form.
type PhotoInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// CreateBlogInput is the payload for creating a blog.
type CreateBlogInput struct {
	UserID      uint
	Title       string
	Body        string
	CategoryIDs []uint
	TagIDs      []uint
	Photo       *PhotoInput
}

// UpdateBlogInput is the payload for updating a blog. Zero-value string
// fields are untouched; nil ID slices are untouched, non-nil slices replace
// the association set.
type UpdateBlogInput struct {
	UserID      uint
	Slug        string
	Title       string
	Body        string
	CategoryIDs []uint
	TagIDs      []uint
	Photo       *PhotoInput
}

// HomeView bundles a page of blogs with the full taxonomy snapshot for the
// landing page.
type HomeView struct {
	Blogs      []*models.Blog    `json:"blogs"`
	Categories []models.Category `json:"categories"`
	Tags       []models.Tag      `json:"tags"`
	Size       int               `json:"size"`
}

// NewBlogService returns a new BlogService.
func NewBlogService(
	blogRepo repository.BlogRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	uploader storage.Uploader,
	cfg *config.Config,
) *BlogService {
	return &BlogService{
		blogRepo:       blogRepo,
		categoryRepo:   categoryRepo,
		tagRepo:        tagRepo,
		uploader:       uploader,
		appName:        cfg.AppName,
		maxUploadBytes: cfg.UploadMaxSizeBytes(),
	}
}

// CreateBlog validates the input, derives slug, excerpt and meta fields,
// uploads the optional photo, and persists the blog with its category and
// tag associations in one transactional write.
func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Body) < minBodyLength {
		return nil, models.NewValidationError("Content is too short")
	}
	if len(in.CategoryIDs) == 0 {
		return nil, models.NewValidationError("At least one category is required")
	}
	if len(in.TagIDs) == 0 {
		return nil, models.NewValidationError("At least one tag is required")
	}

	categories, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:           in.Title,
		Body:            in.Body,
		Slug:            makeSlug(in.Title),
		Excerpt:         excerpt(in.Body),
		MetaTitle:       metaTitle(in.Title, s.appName),
		MetaDescription: metaDescription(in.Body),
		Categories:      categories,
		Tags:            tags,
		UserID:          in.UserID,
	}

	if in.Photo != nil {
		photoURL, err := s.uploadPhoto(ctx, in.UserID, in.Photo)
		if err != nil {
			return nil, err
		}
		blog.PhotoURL = photoURL
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	// Reload so the owner summary is expanded in the response.
	return s.blogRepo.GetBySlug(ctx, blog.Slug)
}

// UpdateBlog merges the incoming fields into the stored blog field by field.
// The slug is always restored after the merge: it is immutable once set.
func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if in.UserID != 0 && blog.UserID != in.UserID {
		return nil, models.NewForbiddenError("You are not authorized")
	}

	originalSlug := blog.Slug

	if in.Title != "" {
		blog.Title = in.Title
		blog.MetaTitle = metaTitle(in.Title, s.appName)
	}
	if in.Body != "" {
		if len(in.Body) < minBodyLength {
			return nil, models.NewValidationError("Content is too short")
		}
		blog.Body = in.Body
		blog.Excerpt = excerpt(in.Body)
		blog.MetaDescription = metaDescription(in.Body)
	}

	var categories []models.Category
	if in.CategoryIDs != nil {
		if len(in.CategoryIDs) == 0 {
			return nil, models.NewValidationError("At least one category is required")
		}
		categories, err = s.resolveCategories(ctx, in.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if in.TagIDs != nil {
		if len(in.TagIDs) == 0 {
			return nil, models.NewValidationError("At least one tag is required")
		}
		tags, err = s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	if in.Photo != nil {
		photoURL, err := s.uploadPhoto(ctx, blog.UserID, in.Photo)
		if err != nil {
			return nil, err
		}
		blog.PhotoURL = photoURL
	}

	// Slug is stable across every merge.
	blog.Slug = originalSlug

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	if categories != nil {
		if err := s.blogRepo.ReplaceCategories(ctx, blog, categories); err != nil {
			return nil, err
		}
	}
	if tags != nil {
		if err := s.blogRepo.ReplaceTags(ctx, blog, tags); err != nil {
			return nil, err
		}
	}

	return blog, nil
}

// GetBlog returns the full blog, body included.
func (s *BlogService) GetBlog(ctx context.Context, slug string) (*models.Blog, error) {
	return s.blogRepo.GetBySlug(ctx, slug)
}

// ListBlogs returns the public list projection, newest first.
func (s *BlogService) ListBlogs(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	blogs, err := s.blogRepo.List(ctx, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	return publicViews(blogs), nil
}

// ListWithTaxonomies returns a page of blogs plus the full current category
// and tag sets for the landing view. The three reads are independent and all
// must succeed.
func (s *BlogService) ListWithTaxonomies(ctx context.Context, limit, skip int) (*HomeView, error) {
	blogs, err := s.blogRepo.List(ctx, normalizeLimit(limit), normalizeOffset(skip))
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := publicViews(blogs)
	return &HomeView{
		Blogs:      views,
		Categories: categories,
		Tags:       tags,
		Size:       len(views),
	}, nil
}

// ListRelated returns other blogs sharing at least one category with the
// given blog, at most limit entries (default 3).
func (s *BlogService) ListRelated(ctx context.Context, blogID uint, categoryIDs []uint, limit int) ([]*models.Blog, error) {
	if blogID == 0 {
		return nil, models.NewValidationError("Blog id is required")
	}
	if limit <= 0 {
		limit = defaultRelatedSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	blogs, err := s.blogRepo.ListRelated(ctx, blogID, categoryIDs, limit)
	if err != nil {
		return nil, err
	}
	return publicViews(blogs), nil
}

// DeleteBlog removes the blog after an ownership check.
func (s *BlogService) DeleteBlog(ctx context.Context, slug string, userID uint) error {
	blog, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if userID != 0 && blog.UserID != userID {
		return models.NewForbiddenError("You are not authorized")
	}
	return s.blogRepo.Delete(ctx, blog.Slug)
}

func (s *BlogService) uploadPhoto(ctx context.Context, userID uint, photo *PhotoInput) (string, error) {
	if photo.Size > s.maxUploadBytes {
		return "", models.NewPayloadTooLargeError(
			fmt.Sprintf("Image should be less than %d MB in size", s.maxUploadBytes/(1024*1024)))
	}
	if s.uploader == nil {
		return "", models.NewUploadFailedError(fmt.Errorf("object storage not configured"))
	}

	ext := strings.ToLower(filepath.Ext(photo.Filename))
	key := fmt.Sprintf("images/%d-%d-%s%s", userID, time.Now().UnixNano(), uuid.New().String()[:8], ext)

	url, err := s.uploader.Upload(ctx, key, photo.Content, photo.ContentType)
	if err != nil {
		return "", models.NewUploadFailedError(err)
	}
	return url, nil
}

func (s *BlogService) resolveCategories(ctx context.Context, ids []uint) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, models.NewValidationError("One or more categories do not exist")
	}
	return categories, nil
}

func (s *BlogService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags, err := s.tagRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, models.NewValidationError("One or more tags do not exist")
	}
	return tags, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func publicViews(blogs []*models.Blog) []*models.Blog {
	views := make([]*models.Blog, len(blogs))
	for i, b := range blogs {
		views[i] = b.PublicView()
	}
	return views
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
