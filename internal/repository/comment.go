package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListCommentsInput captures admin comment listing filters.
type ListCommentsInput struct {
	Status string // "active", "inactive", or "" for all
	PostID uint
	Limit  int
	Offset int
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Deactivate(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	ListByPost(ctx context.Context, postID uint, currentUserID uint, limit, offset int) ([]models.Comment, int64, error)
	List(ctx context.Context, in ListCommentsInput) ([]models.Comment, int64, error)
	ToggleLike(ctx context.Context, userID, commentID uint) (liked bool, count int64, err error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// applyCommentDetails decorates a comment query with like counts and, when
// authenticated, whether the current user has liked each comment.
func applyCommentDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) as liked", currentUserID)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Deactivate soft-hides a comment; the row and its reply thread stay intact.
func (r *commentRepository) Deactivate(ctx context.Context, id uint) error {
	return r.SetActive(ctx, id, false)
}

func (r *commentRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

// ListByPost returns active top-level comments for a post, newest first,
// with each comment's active replies preloaded oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, currentUserID uint, limit, offset int) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL AND is_active = ?", postID, true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	db := applyCommentDetails(base, currentUserID).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return applyCommentDetails(db.Where("is_active = ?", true), currentUserID).
				Order("comments.created_at ASC")
		}).
		Preload("Replies.User").
		Order("comments.created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := db.Find(&comments).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) List(ctx context.Context, in ListCommentsInput) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Comment{})

	switch in.Status {
	case "active":
		base = base.Where("is_active = ?", true)
	case "inactive":
		base = base.Where("is_active = ?", false)
	}
	if in.PostID != 0 {
		base = base.Where("post_id = ?", in.PostID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	err := base.Preload("User").
		Order("created_at DESC").
		Limit(in.Limit).
		Offset(in.Offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

// ToggleLike mirrors the post like toggle for comments.
func (r *commentRepository) ToggleLike(ctx context.Context, userID, commentID uint) (bool, int64, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, models.NewNotFoundError("Comment", commentID)
		}
		return false, 0, models.NewInternalError(err)
	}
	if !comment.IsActive {
		return false, 0, models.NewNotFoundError("Comment", commentID)
	}

	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{UserID: userID, CommentID: commentID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = true
			return nil
		}
		liked = false
		return tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{}).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return liked, 0, models.NewInternalError(err)
	}
	return liked, count, nil
}
