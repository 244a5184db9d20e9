package service

import (
	"context"
	"strings"

	"inkwell/internal/derive"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries a partial profile update; nil fields stay
// untouched.
type UpdateProfileInput struct {
	UserID       uint
	Username     *string
	FirstName    *string
	LastName     *string
	Bio          *string
	ProfileImage *string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// GetProfile returns a user's public profile with follower counts and the
// caller's follow state. Deactivated accounts are hidden from everyone but
// themselves.
func (s *UserService) GetProfile(ctx context.Context, username string, currentUserID uint) (*models.User, error) {
	user, err := s.userRepo.GetProfile(ctx, username, currentUserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive && user.ID != currentUserID {
		return nil, models.NewNotFoundError("User", username)
	}
	if user.ID != currentUserID {
		sanitized := user.Sanitized()
		return &sanitized, nil
	}
	return user, nil
}

// GetMe returns the caller's own account with follow counts.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FollowersCount = int(followers)
	user.FollowingCount = int(following)
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	fields := map[string]any{}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != in.UserID {
			return nil, models.NewConflictError("Username already taken")
		}
		fields["username"] = username
	}
	if in.FirstName != nil {
		if len([]rune(*in.FirstName)) > 50 {
			return nil, models.NewValidationError("First name too long (max 50 characters)")
		}
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if len([]rune(*in.LastName)) > 50 {
			return nil, models.NewValidationError("Last name too long (max 50 characters)")
		}
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["bio"] = *in.Bio
	}
	if in.ProfileImage != nil {
		fields["profile_image"] = *in.ProfileImage
	}

	if err := s.userRepo.UpdateFields(ctx, in.UserID, fields); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

// ToggleFollow flips the caller's follow of another user and returns the
// resulting state.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == followeeID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return false, err
	}
	if !followee.IsActive {
		return false, models.NewNotFoundError("User", followeeID)
	}

	following, err := s.followRepo.Toggle(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	state := "unfollowed"
	if following {
		state = "followed"
	}
	middleware.EngagementToggles.WithLabelValues("follow", state).Inc()
	return following, nil
}

// Followers lists the users following the given user.
func (s *UserService) Followers(ctx context.Context, userID uint, page, limit int) ([]models.User, models.Pagination, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, models.Pagination{}, err
	}
	users, total, err := s.followRepo.Followers(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return sanitizeUsers(users), models.NewPagination(total, page, limit), nil
}

// Following lists the users the given user follows.
func (s *UserService) Following(ctx context.Context, userID uint, page, limit int) ([]models.User, models.Pagination, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, models.Pagination{}, err
	}
	users, total, err := s.followRepo.Following(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return sanitizeUsers(users), models.NewPagination(total, page, limit), nil
}

// SearchUsers finds active users by username or name.
func (s *UserService) SearchUsers(ctx context.Context, query string, page, limit int) ([]models.User, models.Pagination, error) {
	if derive.Blank(query) {
		return nil, models.Pagination{}, models.NewValidationError("Search query is required")
	}
	users, total, err := s.userRepo.Search(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return sanitizeUsers(users), models.NewPagination(total, page, limit), nil
}

func sanitizeUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out
}
