package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles POST /api/category
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.taxonomyService.CreateCategory(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.taxonomyService.ListCategories(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/category/:slug. It returns the category along
// with the blogs filed under it.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	category, err := s.taxonomyService.GetCategory(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	blogs, err := s.blogRepo.ListByCategory(c.Context(), category.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"category": category,
		"blogs":    listProjection(blogs),
	})
}

// DeleteCategory handles DELETE /api/category/:slug
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	if err := s.taxonomyService.DeleteCategory(c.Context(), c.Params("slug")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}

// CreateTag handles POST /api/tag
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.taxonomyService.CreateTag(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.taxonomyService.ListTags(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(tags)
}

// GetTag handles GET /api/tag/:slug. It returns the tag along with the blogs
// labeled with it.
func (s *Server) GetTag(c *fiber.Ctx) error {
	tag, err := s.taxonomyService.GetTag(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	blogs, err := s.blogRepo.ListByTag(c.Context(), tag.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"tag":   tag,
		"blogs": listProjection(blogs),
	})
}

// DeleteTag handles DELETE /api/tag/:slug
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	if err := s.taxonomyService.DeleteTag(c.Context(), c.Params("slug")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Tag deleted successfully",
	})
}
