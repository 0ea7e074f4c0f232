package server

import (
	"filmrate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetWatchlist handles GET /watchlist
func (s *Server) GetWatchlist(c *fiber.Ctx) error {
	items, err := s.watchlistRepo.ListByUser(c.Context(), s.currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// AddToWatchlist handles POST /watchlist. Duplicates are rejected by an
// existence pre-check; a concurrent duplicate that slips past it hits the
// store's unique constraint and gets the same conflict response.
func (s *Server) AddToWatchlist(c *fiber.Ctx) error {
	var req models.WatchlistInput
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

	userID := s.currentUserID(c)
	exists, err := s.watchlistRepo.Exists(c.Context(), userID, req.TmdbID)
	if err != nil {
		return s.respondError(c, err)
	}
	if exists {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("Already in watchlist"))
	}

	if _, err := s.watchlistRepo.Add(c.Context(), userID, &req); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// RemoveFromWatchlist handles DELETE /watchlist/:tmdbID
func (s *Server) RemoveFromWatchlist(c *fiber.Ctx) error {
	tmdbID, err := s.parseID(c, "tmdbID")
	if err != nil {
		return s.respondError(c, err)
	}
	if err := s.watchlistRepo.Remove(c.Context(), s.currentUserID(c), tmdbID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// CheckWatchlist handles GET /watchlist/check/:tmdbID
func (s *Server) CheckWatchlist(c *fiber.Ctx) error {
	tmdbID, err := s.parseID(c, "tmdbID")
	if err != nil {
		return s.respondError(c, err)
	}
	exists, err := s.watchlistRepo.Exists(c.Context(), s.currentUserID(c), tmdbID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"in_watchlist": exists})
}
