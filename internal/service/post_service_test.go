package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, uint) (*models.Post, error)
	getBySlugFn      func(context.Context, string, uint) (*models.Post, error)
	listFn           func(context.Context, repository.ListPostsInput) ([]models.Post, int64, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	incrementViewsFn func(context.Context, uint) error
	toggleLikeFn     func(context.Context, uint, uint) (bool, int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string, currentUserID uint) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, in repository.ListPostsInput) ([]models.Post, int64, error) {
	return s.listFn(ctx, in)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getBySlugFn: func(_ context.Context, _ string, _ uint) (*models.Post, error) {
			return &models.Post{}, nil
		},
		listFn: func(_ context.Context, _ repository.ListPostsInput) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn:     func(_ context.Context, _, _ uint) (bool, int64, error) { return false, 0, nil },
	}
}

func neverAdmin(_ context.Context, _ uint) (bool, error) { return false, nil }
func alwaysAdmin(_ context.Context, _ uint) (bool, error) { return true, nil }

func TestPostService_CreatePostDerivesFields(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 7
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		require.Equal(t, uint(7), id)
		return created, nil
	}

	svc := NewPostService(repo, neverAdmin)
	content := strings.TrimSpace(strings.Repeat("word ", 450))

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:      3,
		Title:       "Hello World!!",
		Content:     content,
		Category:    "Technology",
		IsPublished: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(post.Slug, "hello-world-"), "slug: %s", post.Slug)
	assert.Equal(t, 3, post.ReadTime)
	assert.True(t, strings.HasSuffix(post.Excerpt, "..."))
	assert.Equal(t, 253, len([]rune(post.Excerpt)))
	assert.True(t, post.ExcerptDerived)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, uint(3), post.UserID)
}

func TestPostService_CreatePostKeepsExplicitExcerpt(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return created, nil }

	svc := NewPostService(repo, neverAdmin)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:   1,
		Title:    "Titled",
		Content:  strings.Repeat("long content ", 100),
		Excerpt:  "My own summary.",
		Category: "Food",
	})
	require.NoError(t, err)
	assert.Equal(t, "My own summary.", post.Excerpt)
	assert.False(t, post.ExcerptDerived)
	assert.Nil(t, post.PublishedAt, "drafts carry no publication time")
}

func TestPostService_CreatePostValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo(), neverAdmin)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"missing title", CreatePostInput{Content: "body", Category: "Food"}},
		{"blank title", CreatePostInput{Title: "   ", Content: "body", Category: "Food"}},
		{"missing content", CreatePostInput{Title: "t", Category: "Food"}},
		{"bad category", CreatePostInput{Title: "t", Content: "c", Category: "NotAThing"}},
		{"title too long", CreatePostInput{Title: strings.Repeat("x", 201), Content: "c", Category: "Food"}},
		{"too many tags", CreatePostInput{Title: "t", Content: "c", Category: "Food",
			Tags: strings.Split(strings.Repeat("t,", 11), ",")[:11]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestPostService_UpdatePostOwnership(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, UserID: 42, Title: "t", Content: "c", Category: models.CategoryFood}, nil
	}

	svc := NewPostService(repo, neverAdmin)
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 7, PostID: 1})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// Admins may edit anyone's post.
	adminSvc := NewPostService(repo, alwaysAdmin)
	_, err = adminSvc.UpdatePost(context.Background(), UpdatePostInput{UserID: 7, PostID: 1})
	assert.NoError(t, err)
}

func TestPostService_UpdatePostPublishedAtSetOnce(t *testing.T) {
	firstPublished := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := &models.Post{
		ID: 1, UserID: 7, Title: "t", Content: "c",
		Category: models.CategoryFood, IsPublished: false,
		PublishedAt: &firstPublished,
	}

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		stored = p
		return nil
	}

	svc := NewPostService(repo, neverAdmin)
	published := true
	post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 7, PostID: 1, IsPublished: &published,
	})
	require.NoError(t, err)
	assert.True(t, post.IsPublished)
	assert.Equal(t, firstPublished, *post.PublishedAt, "republish keeps the original timestamp")
}

func TestPostService_UpdatePostExcerptRules(t *testing.T) {
	oldContent := "Old content here."
	makeStored := func(excerpt string, derived bool) *models.Post {
		return &models.Post{
			ID: 1, UserID: 7, Title: "t", Content: oldContent,
			Excerpt: excerpt, ExcerptDerived: derived, Category: models.CategoryFood,
		}
	}

	t.Run("derived excerpt follows content changes", func(t *testing.T) {
		stored := makeStored("Old content here.", true)
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
		repo.updateFn = func(_ context.Context, p *models.Post) error { stored = p; return nil }

		svc := NewPostService(repo, neverAdmin)
		newContent := "Brand new content."
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			UserID: 7, PostID: 1, Content: &newContent,
		})
		require.NoError(t, err)
		assert.Equal(t, "Brand new content.", post.Excerpt)
	})

	t.Run("authored excerpt survives content changes", func(t *testing.T) {
		stored := makeStored("Hand-written summary.", false)
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
		repo.updateFn = func(_ context.Context, p *models.Post) error { stored = p; return nil }

		svc := NewPostService(repo, neverAdmin)
		newContent := "Brand new content."
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			UserID: 7, PostID: 1, Content: &newContent,
		})
		require.NoError(t, err)
		assert.Equal(t, "Hand-written summary.", post.Excerpt)
	})

	t.Run("authored excerpt equal to the old derivation still survives", func(t *testing.T) {
		// The author happened to type exactly what derivation would have
		// produced; their excerpt is authored all the same.
		stored := makeStored("Old content here.", false)
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
		repo.updateFn = func(_ context.Context, p *models.Post) error { stored = p; return nil }

		svc := NewPostService(repo, neverAdmin)
		newContent := "Brand new content."
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			UserID: 7, PostID: 1, Content: &newContent,
		})
		require.NoError(t, err)
		assert.Equal(t, "Old content here.", post.Excerpt)
	})

	t.Run("blank excerpt in the update re-derives", func(t *testing.T) {
		stored := makeStored("Hand-written summary.", false)
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
		repo.updateFn = func(_ context.Context, p *models.Post) error { stored = p; return nil }

		svc := NewPostService(repo, neverAdmin)
		blank := ""
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			UserID: 7, PostID: 1, Excerpt: &blank,
		})
		require.NoError(t, err)
		assert.Equal(t, "Old content here.", post.Excerpt)
		assert.True(t, post.ExcerptDerived)
	})
}

func TestPostService_UpdatePostRecomputesSlugOnRename(t *testing.T) {
	stored := &models.Post{
		ID: 1, UserID: 7, Title: "Old Title", Content: "c",
		Slug: "old-title-abc123", Category: models.CategoryFood,
	}
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return stored, nil }
	repo.updateFn = func(_ context.Context, p *models.Post) error { stored = p; return nil }

	svc := NewPostService(repo, neverAdmin)
	ctx := context.Background()

	newTitle := "Brand New Title"
	post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 7, PostID: 1, Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, post.Title)
	assert.True(t, strings.HasPrefix(post.Slug, "brand-new-title-"), "slug: %s", post.Slug)

	// Re-sending the same title leaves the slug alone.
	renamed := post.Slug
	post, err = svc.UpdatePost(ctx, UpdatePostInput{UserID: 7, PostID: 1, Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, renamed, post.Slug)
}

func TestPostService_GetPostBySlugVisibility(t *testing.T) {
	draft := &models.Post{ID: 1, UserID: 7, Slug: "draft-post", IsPublished: false}

	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Post, error) { return draft, nil }

	svc := NewPostService(repo, neverAdmin)
	ctx := context.Background()

	// Anonymous and strangers get a not-found for drafts.
	_, err := svc.GetPostBySlug(ctx, "draft-post", 0)
	require.Error(t, err)
	_, err = svc.GetPostBySlug(ctx, "draft-post", 99)
	require.Error(t, err)

	// The author sees their own draft.
	got, err := svc.GetPostBySlug(ctx, "draft-post", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.ID)
}

func TestPostService_GetPostBySlugCountsViews(t *testing.T) {
	published := &models.Post{ID: 1, UserID: 7, Slug: "live-post", IsPublished: true, Views: 4}

	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, _ string, _ uint) (*models.Post, error) { return published, nil }
	var increments int
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		increments++
		return nil
	}

	svc := NewPostService(repo, neverAdmin)
	ctx := context.Background()

	got, err := svc.GetPostBySlug(ctx, "live-post", 99)
	require.NoError(t, err)
	assert.Equal(t, 1, increments)
	assert.EqualValues(t, 5, got.Views)

	// The author's own reads are not views.
	_, err = svc.GetPostBySlug(ctx, "live-post", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, increments)
}

func TestPostService_ListMyPostsStatusFilter(t *testing.T) {
	repo := noopPostRepo()
	var gotInput repository.ListPostsInput
	repo.listFn = func(_ context.Context, in repository.ListPostsInput) ([]models.Post, int64, error) {
		gotInput = in
		return []models.Post{}, 0, nil
	}

	svc := NewPostService(repo, neverAdmin)
	ctx := context.Background()

	_, _, err := svc.ListMyPosts(ctx, 7, "draft", 1, 10)
	require.NoError(t, err)
	require.NotNil(t, gotInput.Published)
	assert.False(t, *gotInput.Published)
	assert.Equal(t, uint(7), gotInput.AuthorID)

	_, _, err = svc.ListMyPosts(ctx, 7, "bogus", 1, 10)
	require.Error(t, err)
}

func TestPostService_ListPublishedPostsDefaultSort(t *testing.T) {
	repo := noopPostRepo()
	var gotInput repository.ListPostsInput
	repo.listFn = func(_ context.Context, in repository.ListPostsInput) ([]models.Post, int64, error) {
		gotInput = in
		return []models.Post{}, 0, nil
	}

	svc := NewPostService(repo, neverAdmin)
	ctx := context.Background()

	_, _, err := svc.ListPublishedPosts(ctx, ListPublishedPostsInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "created_at", gotInput.SortBy)

	_, _, err = svc.ListPublishedPosts(ctx, ListPublishedPostsInput{Page: 1, Limit: 10, SortBy: "views"})
	require.NoError(t, err)
	assert.Equal(t, "views", gotInput.SortBy)
}

func TestPostService_ListPublishedPostsPagination(t *testing.T) {
	repo := noopPostRepo()
	repo.listFn = func(_ context.Context, in repository.ListPostsInput) ([]models.Post, int64, error) {
		assert.Equal(t, 10, in.Limit)
		assert.Equal(t, 20, in.Offset)
		return []models.Post{}, 35, nil
	}

	svc := NewPostService(repo, neverAdmin)
	_, pagination, err := svc.ListPublishedPosts(context.Background(), ListPublishedPostsInput{
		Page: 3, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, pagination.CurrentPage)
	assert.Equal(t, 4, pagination.TotalPages)
	assert.EqualValues(t, 35, pagination.Total)
	assert.True(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}
