// Package service contains the business logic between HTTP handlers and
// repositories.
package service

import (
	"context"
	"time"

	"inkwell/internal/derive"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	maxTitleLen   = 200
	maxContentLen = 100000 // 100K characters
	maxExcerptLen = 300
	maxTags       = 10
	maxTagLen     = 30
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID        uint
	Title         string
	Content       string
	Excerpt       string
	Category      string
	Tags          []string
	FeaturedImage string
	IsPublished   bool
}

// UpdatePostInput carries a partial update; nil fields stay untouched.
type UpdatePostInput struct {
	UserID        uint
	PostID        uint
	Title         *string
	Content       *string
	Excerpt       *string
	Category      *string
	Tags          *[]string
	FeaturedImage *string
	IsPublished   *bool
}

type ListPublishedPostsInput struct {
	Category      string
	Search        string
	SortBy        string
	SortOrder     string
	Page          int
	Limit         int
	CurrentUserID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isAdmin:  isAdmin,
	}
}

func validatePostFields(title, content, category string, tags []string, excerpt string) error {
	if derive.Blank(title) {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if derive.Blank(content) {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 100000 characters)")
	}
	if !models.ValidCategory(category) {
		return models.NewValidationError("Invalid category")
	}
	if len([]rune(excerpt)) > maxExcerptLen {
		return models.NewValidationError("Excerpt too long (max 300 characters)")
	}
	if len(tags) > maxTags {
		return models.NewValidationError("Too many tags (max 10)")
	}
	for _, t := range tags {
		if derive.Blank(t) || len(t) > maxTagLen {
			return models.NewValidationError("Tags must be 1-30 characters")
		}
	}
	return nil
}

// CreatePost validates the input, derives slug, read time, and excerpt, and
// persists the post. A caller-supplied excerpt is stored as-is; only a blank
// one is derived from the content.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, in.Category, in.Tags, in.Excerpt); err != nil {
		return nil, err
	}

	excerpt := in.Excerpt
	if derive.Blank(excerpt) {
		excerpt = derive.Excerpt(in.Content)
	}

	post := &models.Post{
		Title:          in.Title,
		Content:        in.Content,
		Excerpt:        excerpt,
		ExcerptDerived: derive.Blank(in.Excerpt),
		Slug:           derive.Slug(in.Title),
		Category:       models.Category(in.Category),
		Tags:           in.Tags,
		FeaturedImage:  in.FeaturedImage,
		ReadTime:       derive.ReadTime(in.Content),
		IsPublished:    in.IsPublished,
		UserID:         in.UserID,
	}
	if in.IsPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) canModerate(ctx context.Context, userID uint) bool {
	if s.isAdmin == nil {
		return false
	}
	admin, err := s.isAdmin(ctx, userID)
	return err == nil && admin
}

// UpdatePost applies a partial update. A title change recomputes the slug
// with a fresh uniqueness token. Read time follows the content. A derived
// excerpt is recomputed on content changes; an authored excerpt is never
// overwritten implicitly.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID && !s.canModerate(ctx, in.UserID) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != nil && *in.Title != post.Title {
		post.Title = *in.Title
		post.Slug = derive.Slug(post.Title)
	}
	if in.Content != nil {
		post.Content = *in.Content
		post.ReadTime = derive.ReadTime(post.Content)
		if in.Excerpt == nil && post.ExcerptDerived {
			post.Excerpt = derive.Excerpt(post.Content)
		}
	}
	if in.Excerpt != nil {
		if derive.Blank(*in.Excerpt) {
			post.Excerpt = derive.Excerpt(post.Content)
			post.ExcerptDerived = true
		} else {
			post.Excerpt = *in.Excerpt
			post.ExcerptDerived = false
		}
	}
	if in.Category != nil {
		post.Category = models.Category(*in.Category)
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
		// PublishedAt records the first publication and survives later
		// unpublish/republish cycles.
		if post.IsPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}
	}

	if err := validatePostFields(post.Title, post.Content, string(post.Category), post.Tags, post.Excerpt); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes a post together with its comments and likes. Only the
// author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID && !s.canModerate(ctx, userID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetPostBySlug returns a post for reading. Unpublished posts are visible
// only to their author and admins; everyone else gets a not-found. Reads of
// published posts by someone other than the author count a view.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug, currentUserID)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished {
		if currentUserID == 0 || (post.UserID != currentUserID && !s.canModerate(ctx, currentUserID)) {
			return nil, models.NewNotFoundSlugError("Post", slug)
		}
		return post, nil
	}

	if currentUserID != post.UserID {
		if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to record post view", "post_id", post.ID, "error", err.Error())
		} else {
			post.Views++
			middleware.PostViews.Inc()
		}
	}
	return post, nil
}

// ListPublishedPosts returns the public, paginated post feed.
func (s *PostService) ListPublishedPosts(ctx context.Context, in ListPublishedPostsInput) ([]models.Post, models.Pagination, error) {
	if in.Category != "" && !models.ValidCategory(in.Category) {
		return nil, models.Pagination{}, models.NewValidationError("Invalid category")
	}

	published := true
	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	posts, total, err := s.postRepo.List(ctx, repository.ListPostsInput{
		Published:     &published,
		Category:      in.Category,
		Search:        in.Search,
		SortBy:        sortBy,
		SortOrder:     in.SortOrder,
		Limit:         in.Limit,
		Offset:        (in.Page - 1) * in.Limit,
		CurrentUserID: in.CurrentUserID,
	})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(total, in.Page, in.Limit), nil
}

// ListMyPosts returns the author's own posts, optionally filtered by
// publication status ("published", "draft", or "" for all).
func (s *PostService) ListMyPosts(ctx context.Context, userID uint, status string, page, limit int) ([]models.Post, models.Pagination, error) {
	var published *bool
	switch status {
	case "published":
		v := true
		published = &v
	case "draft":
		v := false
		published = &v
	case "":
	default:
		return nil, models.Pagination{}, models.NewValidationError("Invalid status filter")
	}

	posts, total, err := s.postRepo.List(ctx, repository.ListPostsInput{
		Published:     published,
		AuthorID:      userID,
		SortBy:        "updated_at",
		Limit:         limit,
		Offset:        (page - 1) * limit,
		CurrentUserID: userID,
	})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(total, page, limit), nil
}

// ListUserPosts returns another user's published posts.
func (s *PostService) ListUserPosts(ctx context.Context, authorID, currentUserID uint, page, limit int) ([]models.Post, models.Pagination, error) {
	published := true
	posts, total, err := s.postRepo.List(ctx, repository.ListPostsInput{
		Published:     &published,
		AuthorID:      authorID,
		SortBy:        "created_at",
		Limit:         limit,
		Offset:        (page - 1) * limit,
		CurrentUserID: currentUserID,
	})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(total, page, limit), nil
}

// ToggleLike flips the user's like on a post and returns the resulting state
// and like count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	liked, count, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	middleware.EngagementToggles.WithLabelValues("post_like", state).Inc()
	return liked, count, nil
}
