package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	createFn            func(context.Context, *models.Blog) error
	getBySlugFn         func(context.Context, string) (*models.Blog, error)
	listFn              func(context.Context, int, int) ([]*models.Blog, error)
	listByCategoryFn    func(context.Context, uint) ([]*models.Blog, error)
	listByTagFn         func(context.Context, uint) ([]*models.Blog, error)
	listRelatedFn       func(context.Context, uint, []uint, int) ([]*models.Blog, error)
	updateFn            func(context.Context, *models.Blog) error
	replaceCategoriesFn func(context.Context, *models.Blog, []models.Category) error
	replaceTagsFn       func(context.Context, *models.Blog, []models.Tag) error
	deleteFn            func(context.Context, string) error
}

func (s *blogRepoStub) Create(ctx context.Context, blog *models.Blog) error {
	return s.createFn(ctx, blog)
}
func (s *blogRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *blogRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *blogRepoStub) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Blog, error) {
	return s.listByCategoryFn(ctx, categoryID)
}
func (s *blogRepoStub) ListByTag(ctx context.Context, tagID uint) ([]*models.Blog, error) {
	return s.listByTagFn(ctx, tagID)
}
func (s *blogRepoStub) ListRelated(ctx context.Context, excludeID uint, categoryIDs []uint, limit int) ([]*models.Blog, error) {
	return s.listRelatedFn(ctx, excludeID, categoryIDs, limit)
}
func (s *blogRepoStub) Update(ctx context.Context, blog *models.Blog) error {
	return s.updateFn(ctx, blog)
}
func (s *blogRepoStub) ReplaceCategories(ctx context.Context, blog *models.Blog, categories []models.Category) error {
	return s.replaceCategoriesFn(ctx, blog, categories)
}
func (s *blogRepoStub) ReplaceTags(ctx context.Context, blog *models.Blog, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, blog, tags)
}
func (s *blogRepoStub) Delete(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopBlogRepo() *blogRepoStub {
	return &blogRepoStub{
		createFn: func(_ context.Context, _ *models.Blog) error { return nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Blog, error) {
			return &models.Blog{Slug: slug}, nil
		},
		listFn:              func(_ context.Context, _, _ int) ([]*models.Blog, error) { return nil, nil },
		listByCategoryFn:    func(_ context.Context, _ uint) ([]*models.Blog, error) { return nil, nil },
		listByTagFn:         func(_ context.Context, _ uint) ([]*models.Blog, error) { return nil, nil },
		listRelatedFn:       func(_ context.Context, _ uint, _ []uint, _ int) ([]*models.Blog, error) { return nil, nil },
		updateFn:            func(_ context.Context, _ *models.Blog) error { return nil },
		replaceCategoriesFn: func(_ context.Context, _ *models.Blog, _ []models.Category) error { return nil },
		replaceTagsFn:       func(_ context.Context, _ *models.Blog, _ []models.Tag) error { return nil },
		deleteFn:            func(_ context.Context, _ string) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn    func(context.Context, *models.Category) error
	listFn      func(context.Context) ([]models.Category, error)
	getBySlugFn func(context.Context, string) (*models.Category, error)
	getByIDsFn  func(context.Context, []uint) ([]models.Category, error)
	deleteFn    func(context.Context, string) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *categoryRepoStub) Delete(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		listFn:   func(_ context.Context) ([]models.Category, error) { return nil, nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{Slug: slug}, nil
		},
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Category, error) {
			categories := make([]models.Category, len(ids))
			for i, id := range ids {
				categories[i] = models.Category{ID: id}
			}
			return categories, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	createFn    func(context.Context, *models.Tag) error
	listFn      func(context.Context) ([]models.Tag, error)
	getBySlugFn func(context.Context, string) (*models.Tag, error)
	getByIDsFn  func(context.Context, []uint) ([]models.Tag, error)
	deleteFn    func(context.Context, string) error
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) List(ctx context.Context) ([]models.Tag, error) {
	return s.listFn(ctx)
}
func (s *tagRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *tagRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *tagRepoStub) Delete(ctx context.Context, slug string) error {
	return s.deleteFn(ctx, slug)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn: func(_ context.Context, _ *models.Tag) error { return nil },
		listFn:   func(_ context.Context) ([]models.Tag, error) { return nil, nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Tag, error) {
			return &models.Tag{Slug: slug}, nil
		},
		getByIDsFn: func(_ context.Context, ids []uint) ([]models.Tag, error) {
			tags := make([]models.Tag, len(ids))
			for i, id := range ids {
				tags[i] = models.Tag{ID: id}
			}
			return tags, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// uploaderStub is a stub for storage.Uploader.
type uploaderStub struct {
	uploadFn func(context.Context, string, io.Reader, string) (string, error)
}

func (s *uploaderStub) Upload(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error) {
	return s.uploadFn(ctx, objectKey, body, contentType)
}

func noopUploader() *uploaderStub {
	return &uploaderStub{
		uploadFn: func(_ context.Context, objectKey string, _ io.Reader, _ string) (string, error) {
			return "https://media.example.com/" + objectKey, nil
		},
	}
}

func testBlogService(blogRepo *blogRepoStub) *BlogService {
	return NewBlogService(blogRepo, noopCategoryRepo(), noopTagRepo(), noopUploader(), &config.Config{
		AppName:         "Inkwell",
		UploadMaxSizeMB: 10,
	})
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func validCreateInput() CreateBlogInput {
	return CreateBlogInput{
		UserID:      1,
		Title:       "Hello World",
		Body:        strings.Repeat("a", 200),
		CategoryIDs: []uint{1},
		TagIDs:      []uint{2},
	}
}

func TestBlogService_CreateBlog_Validation(t *testing.T) {
	t.Parallel()

	svc := testBlogService(noopBlogRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateBlogInput)
	}{
		{
			name:   "empty title",
			mutate: func(in *CreateBlogInput) { in.Title = "  " },
		},
		{
			name:   "body one byte short",
			mutate: func(in *CreateBlogInput) { in.Body = strings.Repeat("a", 199) },
		},
		{
			name:   "no categories",
			mutate: func(in *CreateBlogInput) { in.CategoryIDs = nil },
		},
		{
			name:   "no tags",
			mutate: func(in *CreateBlogInput) { in.TagIDs = nil },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := validCreateInput()
			tc.mutate(&in)
			_, err := svc.CreateBlog(ctx, in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestBlogService_CreateBlog_DerivesFields(t *testing.T) {
	t.Parallel()

	var created *models.Blog
	repo := noopBlogRepo()
	repo.createFn = func(_ context.Context, blog *models.Blog) error {
		created = blog
		return nil
	}
	svc := testBlogService(repo)

	in := validCreateInput()
	in.Title = "Go Concurrency Patterns"
	_, err := svc.CreateBlog(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "go-concurrency-patterns", created.Slug)
	assert.Equal(t, "Go Concurrency Patterns | Inkwell", created.MetaTitle)
	assert.Equal(t, strings.Repeat("a", 160), created.MetaDescription)
	assert.NotEmpty(t, created.Excerpt)
	assert.Equal(t, uint(1), created.UserID)
}

func TestBlogService_CreateBlog_BodyAtMinimumSucceeds(t *testing.T) {
	t.Parallel()

	svc := testBlogService(noopBlogRepo())
	_, err := svc.CreateBlog(context.Background(), validCreateInput())
	assert.NoError(t, err)
}

func TestBlogService_CreateBlog_UnknownCategoryRejected(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDsFn = func(_ context.Context, _ []uint) ([]models.Category, error) {
		return nil, nil
	}
	svc := NewBlogService(noopBlogRepo(), categoryRepo, noopTagRepo(), noopUploader(), &config.Config{
		AppName:         "Inkwell",
		UploadMaxSizeMB: 10,
	})

	_, err := svc.CreateBlog(context.Background(), validCreateInput())
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestBlogService_CreateBlog_PhotoTooLarge(t *testing.T) {
	t.Parallel()

	svc := testBlogService(noopBlogRepo())

	in := validCreateInput()
	in.Photo = &PhotoInput{
		Filename: "big.jpg",
		Size:     11 * 1024 * 1024,
		Content:  strings.NewReader("x"),
	}
	_, err := svc.CreateBlog(context.Background(), in)
	assertAppErrorCode(t, err, models.CodePayloadTooLarge)
	assert.Contains(t, err.Error(), "less than 10 MB")
}

func TestBlogService_CreateBlog_UploadFailure(t *testing.T) {
	t.Parallel()

	uploader := &uploaderStub{
		uploadFn: func(_ context.Context, _ string, _ io.Reader, _ string) (string, error) {
			return "", fmt.Errorf("bucket unreachable")
		},
	}
	svc := NewBlogService(noopBlogRepo(), noopCategoryRepo(), noopTagRepo(), uploader, &config.Config{
		AppName:         "Inkwell",
		UploadMaxSizeMB: 10,
	})

	in := validCreateInput()
	in.Photo = &PhotoInput{Filename: "pic.png", Size: 100, Content: strings.NewReader("x")}
	_, err := svc.CreateBlog(context.Background(), in)
	assertAppErrorCode(t, err, models.CodeUploadFailed)
}

func TestBlogService_CreateBlog_PhotoKeyAndURL(t *testing.T) {
	t.Parallel()

	var uploadedKey string
	uploader := &uploaderStub{
		uploadFn: func(_ context.Context, objectKey string, _ io.Reader, _ string) (string, error) {
			uploadedKey = objectKey
			return "https://media.example.com/" + objectKey, nil
		},
	}
	var created *models.Blog
	repo := noopBlogRepo()
	repo.createFn = func(_ context.Context, blog *models.Blog) error {
		created = blog
		return nil
	}
	svc := NewBlogService(repo, noopCategoryRepo(), noopTagRepo(), uploader, &config.Config{
		AppName:         "Inkwell",
		UploadMaxSizeMB: 10,
	})

	in := validCreateInput()
	in.UserID = 7
	in.Photo = &PhotoInput{Filename: "Cover.JPG", Size: 100, Content: strings.NewReader("x")}
	_, err := svc.CreateBlog(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(uploadedKey, "images/7-"), "key %q", uploadedKey)
	assert.True(t, strings.HasSuffix(uploadedKey, ".jpg"), "key %q", uploadedKey)
	require.NotNil(t, created)
	assert.Equal(t, "https://media.example.com/"+uploadedKey, created.PhotoURL)
}

func TestBlogService_UpdateBlog_SlugIsImmutable(t *testing.T) {
	t.Parallel()

	var saved *models.Blog
	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 1, Title: "Hello World", Slug: "hello-world"}, nil
	}
	repo.updateFn = func(_ context.Context, blog *models.Blog) error {
		saved = blog
		return nil
	}
	svc := testBlogService(repo)

	updated, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: 1,
		Slug:   "hello-world",
		Title:  "Goodbye World",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "hello-world", updated.Slug)
	assert.Equal(t, "Goodbye World", updated.Title)
	assert.Equal(t, "Goodbye World | Inkwell", updated.MetaTitle)
}

func TestBlogService_UpdateBlog_Ownership(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 10, Slug: "hello-world"}, nil
	}
	svc := testBlogService(repo)

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{UserID: 1, Slug: "hello-world"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin bypass with zero user id", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{UserID: 0, Slug: "hello-world"})
		assert.NoError(t, err)
	})
}

func TestBlogService_UpdateBlog_ShortBodyRejected(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 1, Slug: "hello-world"}, nil
	}
	svc := testBlogService(repo)

	_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: 1,
		Slug:   "hello-world",
		Body:   "too short",
	})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestBlogService_UpdateBlog_EmptyCategorySetRejected(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 1, Slug: "hello-world"}, nil
	}
	svc := testBlogService(repo)

	_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID:      1,
		Slug:        "hello-world",
		CategoryIDs: []uint{},
	})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestBlogService_UpdateBlog_ReplacesAssociations(t *testing.T) {
	t.Parallel()

	var replacedCategories []models.Category
	var replacedTags []models.Tag
	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 1, Slug: "hello-world"}, nil
	}
	repo.replaceCategoriesFn = func(_ context.Context, _ *models.Blog, categories []models.Category) error {
		replacedCategories = categories
		return nil
	}
	repo.replaceTagsFn = func(_ context.Context, _ *models.Blog, tags []models.Tag) error {
		replacedTags = tags
		return nil
	}
	svc := testBlogService(repo)

	_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID:      1,
		Slug:        "hello-world",
		CategoryIDs: []uint{3, 4},
		TagIDs:      []uint{5},
	})
	require.NoError(t, err)
	assert.Len(t, replacedCategories, 2)
	assert.Len(t, replacedTags, 1)
}

func TestBlogService_UpdateBlog_OmittedSetsUntouched(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 1, Slug: "hello-world"}, nil
	}
	repo.replaceCategoriesFn = func(_ context.Context, _ *models.Blog, _ []models.Category) error {
		t.Error("ReplaceCategories must not be called when categories are omitted")
		return nil
	}
	repo.replaceTagsFn = func(_ context.Context, _ *models.Blog, _ []models.Tag) error {
		t.Error("ReplaceTags must not be called when tags are omitted")
		return nil
	}
	svc := testBlogService(repo)

	_, err := svc.UpdateBlog(context.Background(), UpdateBlogInput{
		UserID: 1,
		Slug:   "hello-world",
		Title:  "New Title",
	})
	assert.NoError(t, err)
}

func TestBlogService_ListBlogs_StripsBodies(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Blog, error) {
		assert.Equal(t, 10, limit)
		assert.Equal(t, 0, offset)
		return []*models.Blog{
			{ID: 1, Slug: "a", Body: "full body", Excerpt: "short"},
		}, nil
	}
	svc := testBlogService(repo)

	blogs, err := svc.ListBlogs(context.Background(), 0, -5)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Empty(t, blogs[0].Body)
	assert.Equal(t, "short", blogs[0].Excerpt)
}

func TestBlogService_ListWithTaxonomies(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.listFn = func(_ context.Context, _, _ int) ([]*models.Blog, error) {
		return []*models.Blog{{ID: 1, Slug: "a"}, {ID: 2, Slug: "b"}}, nil
	}
	categoryRepo := noopCategoryRepo()
	categoryRepo.listFn = func(_ context.Context) ([]models.Category, error) {
		return []models.Category{{ID: 1, Name: "Go"}}, nil
	}
	tagRepo := noopTagRepo()
	tagRepo.listFn = func(_ context.Context) ([]models.Tag, error) {
		return []models.Tag{{ID: 1, Name: "tips"}, {ID: 2, Name: "deep-dive"}}, nil
	}
	svc := NewBlogService(repo, categoryRepo, tagRepo, noopUploader(), &config.Config{
		AppName:         "Inkwell",
		UploadMaxSizeMB: 10,
	})

	view, err := svc.ListWithTaxonomies(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, view.Blogs, 2)
	assert.Len(t, view.Categories, 1)
	assert.Len(t, view.Tags, 2)
	assert.Equal(t, 2, view.Size)
}

func TestBlogService_ListRelated(t *testing.T) {
	t.Parallel()

	t.Run("missing blog id rejected", func(t *testing.T) {
		t.Parallel()
		svc := testBlogService(noopBlogRepo())
		_, err := svc.ListRelated(context.Background(), 0, []uint{1}, 3)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("limit defaults to three", func(t *testing.T) {
		t.Parallel()
		repo := noopBlogRepo()
		repo.listRelatedFn = func(_ context.Context, excludeID uint, categoryIDs []uint, limit int) ([]*models.Blog, error) {
			assert.Equal(t, uint(9), excludeID)
			assert.Equal(t, []uint{1, 2}, categoryIDs)
			assert.Equal(t, 3, limit)
			return nil, nil
		}
		svc := testBlogService(repo)
		_, err := svc.ListRelated(context.Background(), 9, []uint{1, 2}, 0)
		assert.NoError(t, err)
	})
}

func TestBlogService_DeleteBlog_Ownership(t *testing.T) {
	t.Parallel()

	repo := noopBlogRepo()
	repo.getBySlugFn = func(_ context.Context, _ string) (*models.Blog, error) {
		return &models.Blog{ID: 1, UserID: 10, Slug: "hello-world"}, nil
	}

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		svc := testBlogService(repo)
		assert.NoError(t, svc.DeleteBlog(context.Background(), "hello-world", 10))
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		t.Parallel()
		svc := testBlogService(repo)
		err := svc.DeleteBlog(context.Background(), "hello-world", 1)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin bypass with zero user id", func(t *testing.T) {
		t.Parallel()
		svc := testBlogService(repo)
		assert.NoError(t, svc.DeleteBlog(context.Background(), "hello-world", 0))
	})
}
