package server

import (
	"strconv"
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseIDList parses a comma-separated list of positive integer ids, as sent
// by the multipart blog forms ("1,4,7").
func parseIDList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil || id == 0 {
			return nil, models.NewValidationError("Invalid id list")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseOptionalIDList distinguishes an absent form field (nil, keep the
// current set) from a present one (replace the set). An explicitly empty
// field comes back as an empty non-nil slice so validation can reject it.
func parseOptionalIDList(c *fiber.Ctx, field string) ([]uint, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	values, present := form.Value[field]
	if !present {
		return nil, nil
	}

	raw := ""
	if len(values) > 0 {
		raw = values[0]
	}
	ids, err := parseIDList(raw)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// listProjection strips bodies from blogs destined for list responses.
func listProjection(blogs []*models.Blog) []*models.Blog {
	views := make([]*models.Blog, len(blogs))
	for i, b := range blogs {
		views[i] = b.PublicView()
	}
	return views
}
