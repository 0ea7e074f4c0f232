package server

import (
	"time"

	"filmrate/internal/models"
	"filmrate/internal/service"
	"filmrate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetRatings handles GET /ratings
func (s *Server) GetRatings(c *fiber.Ctx) error {
	ratings, err := s.ratingRepo.ListByUser(c.Context(), s.currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(ratings)
}

// SaveRating handles POST /ratings. Overwrites the score and comment when a
// rating for the item already exists, keeps the cached catalog metadata.
func (s *Server) SaveRating(c *fiber.Ctx) error {
	var req models.RatingInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.TmdbID <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("tmdb_id is required"))
	}
	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}
	if err := validation.ValidateScore(req.UserRating); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Empty comments are stored as NULL, not empty strings.
	if req.Comment != nil && *req.Comment == "" {
		req.Comment = nil
	}

	rating, err := s.ratingRepo.Save(c.Context(), s.currentUserID(c), &req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(rating)
}

// DeleteRating handles DELETE /ratings/:tmdbID
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	tmdbID, err := s.parseID(c, "tmdbID")
	if err != nil {
		return s.respondError(c, err)
	}
	if err := s.ratingRepo.Delete(c.Context(), s.currentUserID(c), tmdbID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetRatingStats handles GET /ratings/stats
func (s *Server) GetRatingStats(c *fiber.Ctx) error {
	rows, err := s.ratingRepo.ListStatsRows(c.Context(), s.currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(service.ComputeStats(rows))
}

// ExportRatings handles GET /ratings/export
func (s *Server) ExportRatings(c *fiber.Ctx) error {
	user := s.currentUser(c)
	rows, err := s.ratingRepo.ListForExport(c.Context(), user.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
		},
		"export_date":   time.Now().UTC().Format(time.RFC3339),
		"total_ratings": len(rows),
		"ratings":       rows,
	})
}
