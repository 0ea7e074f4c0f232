package server

import (
	"filmrate/internal/auth"
	"filmrate/internal/models"
	"filmrate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	existing, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return s.respondError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError("Username already exists"))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	email := req.Email
	if email == "" {
		email = req.Username + "@placeholder.com"
	}

	user, err := s.userRepo.Create(c.Context(), req.Username, hashed, displayName, email)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"access_token": auth.IssueToken(s.config.SecretKey, user.ID),
		"user":         user,
	})
}

// Login handles POST /auth/login. The failure response has a single constant
// shape whether the username is unknown or the password is wrong.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return s.respondError(c, err)
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	user.HashedPassword = ""
	return c.JSON(fiber.Map{
		"access_token": auth.IssueToken(s.config.SecretKey, user.ID),
		"user":         user,
	})
}

// Me handles GET /auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(s.currentUser(c))
}

// UpdateProfile handles POST /auth/update_profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.DisplayName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("display_name is required"))
	}

	if err := s.userRepo.UpdateDisplayName(c.Context(), s.currentUserID(c), req.DisplayName); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"display_name": req.DisplayName})
}
