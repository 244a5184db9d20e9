package service

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// DashboardCounts aggregates platform-wide totals for the admin dashboard.
type DashboardCounts struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	TotalPosts     int64 `json:"total_posts"`
	PublishedPosts int64 `json:"published_posts"`
	TotalComments  int64 `json:"total_comments"`
	ActiveComments int64 `json:"active_comments"`
	TotalLikes     int64 `json:"total_likes"`
	TotalFollows   int64 `json:"total_follows"`
}

// CategoryCount is one bar of the published-posts-per-category histogram.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MonthlyStat reports signups and posts for one calendar month.
type MonthlyStat struct {
	Month string `json:"month"` // YYYY-MM
	Users int64  `json:"users"`
	Posts int64  `json:"posts"`
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	Counts         DashboardCounts  `json:"counts"`
	RecentUsers    []models.User    `json:"recent_users"`
	RecentPosts    []models.Post    `json:"recent_posts"`
	RecentComments []models.Comment `json:"recent_comments"`
	ByCategory     []CategoryCount  `json:"by_category"`
	Monthly        []MonthlyStat    `json:"monthly"`
}

// AdminService provides moderation and platform statistics for admins.
// Aggregates query the database directly; row-level operations go through
// the repositories so cache invalidation stays in one place.
type AdminService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewAdminService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
) *AdminService {
	return &AdminService{
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

const recentLimit = 5

// Dashboard assembles counts, recent activity, the published-posts category
// histogram, and twelve months of signup/post history. Monthly buckets are
// grouped in Go so the query stays portable across dialects.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		model any
		where []any
	}{
		{&stats.Counts.TotalUsers, &models.User{}, nil},
		{&stats.Counts.ActiveUsers, &models.User{}, []any{"is_active = ?", true}},
		{&stats.Counts.TotalPosts, &models.Post{}, nil},
		{&stats.Counts.PublishedPosts, &models.Post{}, []any{"is_published = ?", true}},
		{&stats.Counts.TotalComments, &models.Comment{}, nil},
		{&stats.Counts.ActiveComments, &models.Comment{}, []any{"is_active = ?", true}},
		{&stats.Counts.TotalLikes, &models.PostLike{}, nil},
		{&stats.Counts.TotalFollows, &models.Follow{}, nil},
	}
	for _, c := range counts {
		q := s.db.WithContext(ctx).Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(recentLimit).
		Find(&stats.RecentUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Limit(recentLimit).
		Find(&stats.RecentPosts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").Order("created_at DESC").Limit(recentLimit).
		Find(&stats.RecentComments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Select("category, COUNT(*) as count").
		Where("is_published = ?", true).
		Group("category").
		Order("count DESC").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	monthly, err := s.monthlyStats(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	stats.Monthly = monthly

	return stats, nil
}

// monthlyStats buckets user signups and post creations per calendar month
// for the twelve months ending at now.
func (s *AdminService) monthlyStats(ctx context.Context, now time.Time) ([]MonthlyStat, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	var userTimes, postTimes []time.Time
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ?", start).
		Pluck("created_at", &userTimes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("created_at >= ?", start).
		Pluck("created_at", &postTimes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	stats := make([]MonthlyStat, 12)
	index := make(map[string]int, 12)
	for i := range stats {
		month := start.AddDate(0, i, 0).Format("2006-01")
		stats[i] = MonthlyStat{Month: month}
		index[month] = i
	}
	for _, t := range userTimes {
		if i, ok := index[t.UTC().Format("2006-01")]; ok {
			stats[i].Users++
		}
	}
	for _, t := range postTimes {
		if i, ok := index[t.UTC().Format("2006-01")]; ok {
			stats[i].Posts++
		}
	}
	return stats, nil
}

// ListUsers returns the paginated admin user listing.
func (s *AdminService) ListUsers(ctx context.Context, in repository.ListUsersInput, page, limit int) ([]models.User, models.Pagination, error) {
	in.Limit = limit
	in.Offset = (page - 1) * limit
	users, total, err := s.userRepo.List(ctx, in)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(total, page, limit), nil
}

// SetUserActive activates or deactivates an account. Admin accounts cannot
// be deactivated.
func (s *AdminService) SetUserActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active && user.IsAdmin() {
		return nil, models.NewForbiddenError("Admin accounts cannot be deactivated")
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"is_active": active}); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// ListPosts returns the paginated admin post listing, drafts included.
func (s *AdminService) ListPosts(ctx context.Context, status string, page, limit int) ([]models.Post, models.Pagination, error) {
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
		Published: published,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(total, page, limit), nil
}

// DeletePost removes any post regardless of author.
func (s *AdminService) DeletePost(ctx context.Context, postID uint) error {
	return s.postRepo.Delete(ctx, postID)
}

// ListComments returns the paginated admin comment listing.
func (s *AdminService) ListComments(ctx context.Context, in repository.ListCommentsInput, page, limit int) ([]models.Comment, models.Pagination, error) {
	in.Limit = limit
	in.Offset = (page - 1) * limit
	comments, total, err := s.commentRepo.List(ctx, in)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return comments, models.NewPagination(total, page, limit), nil
}

// SetCommentActive hides or restores a comment.
func (s *AdminService) SetCommentActive(ctx context.Context, commentID uint, active bool) (*models.Comment, error) {
	if err := s.commentRepo.SetActive(ctx, commentID, active); err != nil {
		return nil, err
	}
	cache.InvalidatePostList(ctx)
	return s.commentRepo.GetByID(ctx, commentID)
}
