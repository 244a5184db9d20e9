// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List published posts
// @Description Returns the paginated public feed, optionally filtered by category and search query
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param category query string false "Category filter"
// @Param search query string false "Search in title, content, and tags"
// @Param sort_by query string false "Sort column" Enums(published_at, created_at, views, title)
// @Param sort_order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} object{posts=[]models.Post,pagination=models.Pagination}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	page := parsePage(c)

	posts, pagination, err := s.postService.ListPublishedPosts(c.Context(), service.ListPublishedPostsInput{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
		Page:          page.Page,
		Limit:         page.Limit,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetPost handles GET /api/posts/:slug
// @Summary Get a post by slug
// @Description Returns a single post. Reads by non-authors count a view.
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} object{post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{slug} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPostBySlug(c.Context(), c.Params("slug"), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post": post,
	})
}

type createPostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image"`
	IsPublished   bool     `json:"is_published"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Creates a post; slug, read time, and excerpt are derived server-side
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Post payload"
// @Success 201 {object} object{post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post": post,
	})
}

type updatePostRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	FeaturedImage *string   `json:"featured_image"`
	IsPublished   *bool     `json:"is_published"`
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Description Partially updates a post; omitted fields stay untouched. A title change regenerates the slug.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body updatePostRequest true "Fields to update"
// @Success 200 {object} object{post=models.Post}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, svcErr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:        userID,
		PostID:        postID,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		IsPublished:   req.IsPublished,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"post": post,
	})
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Deletes a post together with its comments and likes
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.postService.DeletePost(c.Context(), userID, postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// ToggleLikePost handles POST /api/posts/:id/like
// @Summary Toggle a post like
// @Description Likes the post if not yet liked, otherwise removes the like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{liked=bool,likes_count=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLikePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, count, svcErr := s.postService.ToggleLike(c.Context(), userID, postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": count,
	})
}

// GetMyPosts handles GET /api/users/me/posts
// @Summary List own posts
// @Description Returns the caller's posts, drafts included, optionally filtered by status
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param status query string false "Publication filter" Enums(published, draft)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{posts=[]models.Post,pagination=models.Pagination}
// @Router /users/me/posts [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePage(c)

	posts, pagination, err := s.postService.ListMyPosts(c.Context(), userID, c.Query("status"), page.Page, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's published posts
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} object{posts=[]models.Post,pagination=models.Pagination}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	currentID, _ := s.optionalUserID(c)

	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c)

	posts, pagination, svcErr := s.postService.ListUserPosts(c.Context(), authorID, currentID, page.Page, page.Limit)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}
