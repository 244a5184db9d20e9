// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
// @Summary Get own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User}
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetMe(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

type updateProfileRequest struct {
	Username     *string `json:"username"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Partially updates the caller's profile; omitted fields stay untouched
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "Fields to update"
// @Success 200 {object} object{user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       userID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// GetUserProfile handles GET /api/users/:username
// @Summary Get a public profile
// @Description Returns a user's profile with follower counts and the caller's follow state
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{user=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	currentID, _ := s.optionalUserID(c)

	user, err := s.userService.GetProfile(c.Context(), c.Params("username"), currentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// ToggleFollow handles POST /api/users/:id/follow
// @Summary Toggle following a user
// @Description Follows the user if not yet followed, otherwise unfollows
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	userID := currentUserID(c)

	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, svcErr := s.userService.ToggleFollow(c.Context(), userID, followeeID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"following": following,
	})
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{users=[]models.User,pagination=models.Pagination}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c)

	users, pagination, svcErr := s.userService.Followers(c.Context(), userID, page.Page, page.Limit)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// GetFollowing handles GET /api/users/:id/following
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{users=[]models.User,pagination=models.Pagination}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c)

	users, pagination, svcErr := s.userService.Following(c.Context(), userID, page.Page, page.Limit)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// SearchUsers handles GET /api/users/search
// @Summary Search users
// @Description Finds active users by username or name
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{users=[]models.User,pagination=models.Pagination}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePage(c)

	users, pagination, err := s.userService.SearchUsers(c.Context(), c.Query("q"), page.Page, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}
