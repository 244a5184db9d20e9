package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPostsInput captures all supported post listing filters. A nil Published
// means no publication filter (admin and author views), CurrentUserID of 0
// means anonymous.
type ListPostsInput struct {
	Published     *bool
	Category      string
	AuthorID      uint
	Search        string
	SortBy        string
	SortOrder     string
	Limit         int
	Offset        int
	CurrentUserID uint
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, in ListPostsInput) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (liked bool, count int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// allowed sort columns for listings; anything else falls back to created_at
var postSortColumns = map[string]string{
	"created_at":   "created_at",
	"published_at": "published_at",
	"updated_at":   "updated_at",
	"views":        "views",
	"title":        "title",
}

// applyPostDetails decorates a post query with like/comment counts and,
// when authenticated, whether the current user has liked each post.
func applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) as likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.is_active = ? AND comments.deleted_at IS NULL) as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM post_likes WHERE post_likes.post_id = posts.id AND post_likes.user_id = ?) as liked", true, currentUserID)
	}
	return db.Select(selectQuery+", false as liked", true)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePostList(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	db := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID)
	if err := db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	var post models.Post
	db := applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID)
	if err := db.Preload("User").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundSlugError("Post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, in ListPostsInput) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})

	if in.Published != nil {
		base = base.Where("is_published = ?", *in.Published)
	}
	if in.Category != "" {
		base = base.Where("category = ?", in.Category)
	}
	if in.AuthorID != 0 {
		base = base.Where("user_id = ?", in.AuthorID)
	}
	if in.Search != "" {
		like := "%" + strings.ToLower(in.Search) + "%"
		base = base.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	column, ok := postSortColumns[in.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(in.SortOrder, "asc") {
		direction = "ASC"
	}

	var posts []models.Post
	db := applyPostDetails(base, in.CurrentUserID).
		Preload("User").
		Order(column + " " + direction).
		Limit(in.Limit).
		Offset(in.Offset)
	if err := db.Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.Slug)
	return nil
}

// Delete removes a post and soft-deletes its comments and hard-deletes its
// likes inside a single transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.Slug)
	return nil
}

// IncrementViews bumps the view counter atomically without touching updated_at.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike likes the post when no like row exists, otherwise removes it.
// The insert uses ON CONFLICT DO NOTHING to handle race conditions: a
// concurrent duplicate insert degrades to an unlike rather than an error.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	var exists int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
		return false, 0, models.NewInternalError(err)
	}
	if exists == 0 {
		return false, 0, models.NewNotFoundError("Post", postID)
	}

	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostLike{UserID: userID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return nil
		}
		liked = false
		return tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.PostLike{}).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return liked, 0, models.NewInternalError(err)
	}
	return liked, count, nil
}
