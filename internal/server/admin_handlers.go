// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboard handles GET /api/admin/dashboard
// @Summary Admin dashboard statistics
// @Description Returns platform totals, recent activity, category histogram, and twelve months of history
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/dashboard [get]
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	stats, err := s.adminService.Dashboard(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// AdminListUsers handles GET /api/admin/users
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Account filter" Enums(active, inactive)
// @Param search query string false "Search in username, email, and name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{users=[]models.User,pagination=models.Pagination}
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page := parsePage(c)

	users, pagination, err := s.adminService.ListUsers(c.Context(), repository.ListUsersInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}, page.Page, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// AdminSetUserStatus handles PATCH /api/admin/users/:id/status
// @Summary Activate or deactivate a user
// @Description Toggles account access; admin accounts cannot be deactivated
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{is_active=bool} true "New status"
// @Success 200 {object} object{user=models.User}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id}/status [patch]
func (s *Server) AdminSetUserStatus(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_active is required"))
	}

	user, svcErr := s.adminService.SetUserActive(c.Context(), userID, *req.IsActive)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// AdminListPosts handles GET /api/admin/posts
// @Summary List all posts including drafts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Publication filter" Enums(published, draft)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{posts=[]models.Post,pagination=models.Pagination}
// @Router /admin/posts [get]
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	page := parsePage(c)

	posts, pagination, err := s.adminService.ListPosts(c.Context(), c.Query("status"), page.Page, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
// @Summary Delete any post
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id} [delete]
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.adminService.DeletePost(c.Context(), postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// AdminListComments handles GET /api/admin/comments
// @Summary List all comments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Visibility filter" Enums(active, inactive)
// @Param post_id query int false "Filter by post"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{comments=[]models.Comment,pagination=models.Pagination}
// @Router /admin/comments [get]
func (s *Server) AdminListComments(c *fiber.Ctx) error {
	page := parsePage(c)

	postID := c.QueryInt("post_id", 0)
	if postID < 0 {
		postID = 0
	}

	comments, pagination, err := s.adminService.ListComments(c.Context(), repository.ListCommentsInput{
		Status: c.Query("status"),
		PostID: uint(postID),
	}, page.Page, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments":   comments,
		"pagination": pagination,
	})
}

// AdminSetCommentStatus handles PATCH /api/admin/comments/:id/status
// @Summary Hide or restore a comment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body object{is_active=bool} true "New status"
// @Success 200 {object} object{comment=models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/comments/{id}/status [patch]
func (s *Server) AdminSetCommentStatus(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("is_active is required"))
	}

	comment, svcErr := s.adminService.SetCommentActive(c.Context(), commentID, *req.IsActive)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"comment": comment,
	})
}
