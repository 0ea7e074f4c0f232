package server

import (
	"errors"

	"filmrate/internal/models"
	"filmrate/internal/tmdb"

	"github.com/gofiber/fiber/v2"
)

// PopularMovies handles GET /movies/popular
func (s *Server) PopularMovies(c *fiber.Ctx) error {
	results, err := s.catalog.Trending(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"results": results})
}

// SearchMovies handles GET /movies/search
func (s *Server) SearchMovies(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("query is required"))
	}

	results, err := s.catalog.Search(c.Context(), query)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"results": results})
}

// TopRatedMovies handles GET /movies/top_rated
func (s *Server) TopRatedMovies(c *fiber.Ctx) error {
	results, err := s.catalog.TopRated(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"results": results})
}

// MovieDetail handles GET /movies/:id
func (s *Server) MovieDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return s.respondError(c, err)
	}
	mediaType := c.Query("media_type", "movie")

	item, err := s.catalog.Detail(c.Context(), id, mediaType)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Not found"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(item)
}
