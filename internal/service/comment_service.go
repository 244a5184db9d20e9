package service

import (
	"context"

	"inkwell/internal/derive"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	Content         string
	ParentCommentID *uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) canModerate(ctx context.Context, userID uint) bool {
	if s.isAdmin == nil {
		return false
	}
	admin, err := s.isAdmin(ctx, userID)
	return err == nil && admin
}

func validateCommentContent(content string) error {
	if derive.Blank(content) {
		return models.NewValidationError("Comment content is required")
	}
	if len([]rune(content)) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 1000 characters)")
	}
	return nil
}

// CreateComment adds a comment to a published post. Replies attach to an
// active top-level comment on the same post; threads never nest deeper than
// one level.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsActive {
			return nil, models.NewNotFoundError("Comment", *in.ParentCommentID)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Replies cannot be nested")
		}
	}

	comment := &models.Comment{
		Content:         in.Content,
		UserID:          in.UserID,
		PostID:          in.PostID,
		IsActive:        true,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment edits a comment's content. Authors edit their own comments;
// admins edit any.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsActive {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.UserID != userID && !s.canModerate(ctx, userID) {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment hides a comment. The row stays so existing replies keep
// their thread. Authors delete their own comments; admins delete any.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !s.canModerate(ctx, userID) {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Deactivate(ctx, commentID)
}

// ListComments returns the active comment thread of a published post.
func (s *CommentService) ListComments(ctx context.Context, postID, currentUserID uint, page, limit int) ([]models.Comment, models.Pagination, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if !post.IsPublished && post.UserID != currentUserID && !s.canModerate(ctx, currentUserID) {
		return nil, models.Pagination{}, models.NewNotFoundError("Post", postID)
	}

	comments, total, err := s.commentRepo.ListByPost(ctx, postID, currentUserID, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return comments, models.NewPagination(total, page, limit), nil
}

// ToggleLike flips the user's like on a comment and returns the resulting
// state and like count.
func (s *CommentService) ToggleLike(ctx context.Context, userID, commentID uint) (bool, int64, error) {
	liked, count, err := s.commentRepo.ToggleLike(ctx, userID, commentID)
	if err != nil {
		return false, 0, err
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	middleware.EngagementToggles.WithLabelValues("comment_like", state).Inc()
	return liked, count, nil
}
