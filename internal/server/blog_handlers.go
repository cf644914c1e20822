package server

import (
	"mime/multipart"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateBlog handles POST /api/blog and POST /api/user/blog. The payload is
// a multipart form carrying title, body, comma-separated category and tag
// ids, and an optional photo file.
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	categoryIDs, err := parseIDList(c.FormValue("categories"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	tagIDs, err := parseIDList(c.FormValue("tags"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	photo, cleanup, err := parsePhoto(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	defer cleanup()

	blog, err := s.blogService.CreateBlog(c.Context(), service.CreateBlogInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		Body:        c.FormValue("body"),
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		Photo:       photo,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/user/blog/:slug. OwnerRequired has already
// verified the caller owns the blog.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	return s.updateBlog(c, c.Locals("userID").(uint))
}

// AdminUpdateBlog handles PUT /api/blog/:slug. Admins may edit any blog, so
// the ownership check is skipped.
func (s *Server) AdminUpdateBlog(c *fiber.Ctx) error {
	return s.updateBlog(c, 0)
}

func (s *Server) updateBlog(c *fiber.Ctx, asUserID uint) error {
	categoryIDs, err := parseOptionalIDList(c, "categories")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	tagIDs, err := parseOptionalIDList(c, "tags")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	photo, cleanup, err := parsePhoto(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	defer cleanup()

	blog, err := s.blogService.UpdateBlog(c.Context(), service.UpdateBlogInput{
		UserID:      asUserID,
		Slug:        c.Params("slug"),
		Title:       c.FormValue("title"),
		Body:        c.FormValue("body"),
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		Photo:       photo,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(blog)
}

// GetBlogs handles GET /api/blogs
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	pagination := parsePagination(c, 10)

	blogs, err := s.blogService.ListBlogs(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(blogs)
}

// GetBlog handles GET /api/blog/:slug
func (s *Server) GetBlog(c *fiber.Ctx) error {
	blog, err := s.blogService.GetBlog(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(blog)
}

// GetBlogsWithCategoriesAndTags handles POST /api/blogs/categories-tags. It
// returns a page of blogs together with the full category and tag lists for
// the landing view.
func (s *Server) GetBlogsWithCategoriesAndTags(c *fiber.Ctx) error {
	var req struct {
		Limit int `json:"limit"`
		Skip  int `json:"skip"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.blogService.ListWithTaxonomies(c.Context(), req.Limit, req.Skip)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// GetRelatedBlogs handles POST /api/blogs/related. It returns other blogs
// sharing at least one category with the given blog.
func (s *Server) GetRelatedBlogs(c *fiber.Ctx) error {
	var req struct {
		Limit int `json:"limit"`
		Blog  struct {
			ID         uint `json:"id"`
			Categories []struct {
				ID uint `json:"id"`
			} `json:"categories"`
		} `json:"blog"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	categoryIDs := make([]uint, 0, len(req.Blog.Categories))
	for _, category := range req.Blog.Categories {
		categoryIDs = append(categoryIDs, category.ID)
	}

	blogs, err := s.blogService.ListRelated(c.Context(), req.Blog.ID, categoryIDs, req.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(blogs)
}

// DeleteBlog handles DELETE /api/user/blog/:slug. OwnerRequired has already
// verified the caller owns the blog.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	return s.deleteBlog(c, c.Locals("userID").(uint))
}

// AdminDeleteBlog handles DELETE /api/blog/:slug
func (s *Server) AdminDeleteBlog(c *fiber.Ctx) error {
	return s.deleteBlog(c, 0)
}

func (s *Server) deleteBlog(c *fiber.Ctx, asUserID uint) error {
	if err := s.blogService.DeleteBlog(c.Context(), c.Params("slug"), asUserID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Blog deleted successfully",
	})
}

// parsePhoto extracts the optional photo file from the multipart form. The
// returned cleanup closes the underlying file and must always be called.
func parsePhoto(c *fiber.Ctx) (*service.PhotoInput, func(), error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		// fasthttp returns an error both when the field is absent and when
		// the request is not multipart at all. Either way there is no photo.
		return nil, func() {}, nil
	}
	return openPhoto(fileHeader)
}

func openPhoto(fileHeader *multipart.FileHeader) (*service.PhotoInput, func(), error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, models.NewUploadFailedError(err)
	}
	return &service.PhotoInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	}, func() { file.Close() }, nil
}
