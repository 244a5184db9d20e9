package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestComment(t *testing.T, repo CommentRepository, userID, postID uint, parentID *uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content:         content,
		UserID:          userID,
		PostID:          postID,
		IsActive:        true,
		ParentCommentID: parentID,
	}
	require.NoError(t, repo.Create(context.Background(), comment))
	return comment
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author.ID, "commented-post", true)

	first := createTestComment(t, repo, reader.ID, post.ID, nil, "first")
	second := createTestComment(t, repo, author.ID, post.ID, nil, "second")
	reply := createTestComment(t, repo, author.ID, post.ID, &first.ID, "a reply")
	hidden := createTestComment(t, repo, reader.ID, post.ID, nil, "hidden")
	require.NoError(t, repo.Deactivate(ctx, hidden.ID))

	comments, total, err := repo.ListByPost(ctx, post.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "replies and hidden comments are not top-level rows")
	require.Len(t, comments, 2)

	// Newest top-level comment first.
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)

	// Replies ride along under their parent.
	require.Len(t, comments[1].Replies, 1)
	assert.Equal(t, reply.ID, comments[1].Replies[0].ID)
	assert.Equal(t, author.Username, comments[1].Replies[0].User.Username)
}

func TestCommentRepository_DeactivateHidesReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "threaded-post", true)

	parent := createTestComment(t, repo, author.ID, post.ID, nil, "parent")
	reply := createTestComment(t, repo, author.ID, post.ID, &parent.ID, "reply")
	require.NoError(t, repo.Deactivate(ctx, reply.ID))

	comments, _, err := repo.ListByPost(ctx, post.ID, 0, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].Replies, "inactive replies stay hidden")

	// The row itself still exists for the thread.
	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestCommentRepository_SetActiveRestores(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "restored-post", true)
	comment := createTestComment(t, repo, author.ID, post.ID, nil, "flagged")

	require.NoError(t, repo.SetActive(ctx, comment.ID, false))
	_, total, err := repo.ListByPost(ctx, post.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	require.NoError(t, repo.SetActive(ctx, comment.ID, true))
	_, total, err = repo.ListByPost(ctx, post.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	err = repo.SetActive(ctx, 9999, false)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author.ID, "liked-comments", true)
	comment := createTestComment(t, repo, author.ID, post.ID, nil, "likeable")

	liked, count, err := repo.ToggleLike(ctx, reader.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, count)

	liked, count, err = repo.ToggleLike(ctx, reader.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, count)

	// Hidden comments cannot be liked.
	require.NoError(t, repo.Deactivate(ctx, comment.ID))
	_, _, err = repo.ToggleLike(ctx, reader.ID, comment.ID)
	require.Error(t, err)
}

func TestCommentRepository_AdminList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.ID, "moderated-post", true)

	createTestComment(t, repo, author.ID, post.ID, nil, "visible")
	hidden := createTestComment(t, repo, author.ID, post.ID, nil, "hidden")
	require.NoError(t, repo.Deactivate(ctx, hidden.ID))

	comments, total, err := repo.List(ctx, ListCommentsInput{Status: "inactive", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, comments, 1)
	assert.Equal(t, hidden.ID, comments[0].ID)

	comments, total, err = repo.List(ctx, ListCommentsInput{PostID: post.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, comments, 2)
}
