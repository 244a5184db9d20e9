package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCommentViaAPI(t *testing.T, app *fiber.App, token string, postID uint, payload fiber.Map) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, pathID("/api/posts/%d/comments", postID), token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "body: %v", body)
	comment, ok := body["comment"].(map[string]any)
	require.True(t, ok)
	return comment
}

func TestCommentThread(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	reader := signupUser(t, app, "reader")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Discussed", "content": "body", "category": "Food", "is_published": true,
	})
	postID := uint(post["id"].(float64))

	top := createCommentViaAPI(t, app, reader, postID, fiber.Map{"content": "First!"})
	topID := uint(top["id"].(float64))

	createCommentViaAPI(t, app, author, postID, fiber.Map{
		"content":           "Thanks for reading",
		"parent_comment_id": topID,
	})

	resp, body := doJSON(t, app, fiber.MethodGet, pathID("/api/posts/%d/comments", postID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	comments := body["comments"].([]any)
	require.Len(t, comments, 1, "replies nest under their parent")

	thread := comments[0].(map[string]any)
	assert.Equal(t, "First!", thread["content"])
	replies := thread["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, "Thanks for reading", replies[0].(map[string]any)["content"])
}

func TestCommentNestingRejected(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Threaded", "content": "body", "category": "Food", "is_published": true,
	})
	postID := uint(post["id"].(float64))

	top := createCommentViaAPI(t, app, author, postID, fiber.Map{"content": "top"})
	reply := createCommentViaAPI(t, app, author, postID, fiber.Map{
		"content":           "reply",
		"parent_comment_id": uint(top["id"].(float64)),
	})

	resp, _ := doJSON(t, app, fiber.MethodPost, pathID("/api/posts/%d/comments", postID), author, fiber.Map{
		"content":           "reply to a reply",
		"parent_comment_id": uint(reply["id"].(float64)),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCommentOnDraftRejected(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")

	draft := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Draft", "content": "body", "category": "Food",
	})

	resp, _ := doJSON(t, app, fiber.MethodPost,
		pathID("/api/posts/%d/comments", uint(draft["id"].(float64))), author,
		fiber.Map{"content": "too early"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateAndDeleteComment(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	commenter := signupUser(t, app, "commenter")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Post", "content": "body", "category": "Food", "is_published": true,
	})
	postID := uint(post["id"].(float64))

	comment := createCommentViaAPI(t, app, commenter, postID, fiber.Map{"content": "typo herre"})
	commentID := uint(comment["id"].(float64))

	// Only the author edits.
	resp, _ := doJSON(t, app, fiber.MethodPut, pathID("/api/comments/%d", commentID), author, fiber.Map{
		"content": "hijack",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPut, pathID("/api/comments/%d", commentID), commenter, fiber.Map{
		"content": "typo fixed",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "typo fixed", body["comment"].(map[string]any)["content"])

	// Delete hides it from the thread.
	resp, _ = doJSON(t, app, fiber.MethodDelete, pathID("/api/comments/%d", commentID), commenter, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, pathID("/api/posts/%d/comments", postID), "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body["comments"])
}

func TestToggleLikeCommentEndpoint(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	reader := signupUser(t, app, "reader")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Post", "content": "body", "category": "Food", "is_published": true,
	})
	comment := createCommentViaAPI(t, app, author, uint(post["id"].(float64)), fiber.Map{"content": "likeable"})
	commentID := uint(comment["id"].(float64))

	resp, body := doJSON(t, app, fiber.MethodPost, pathID("/api/comments/%d/like", commentID), reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])
	assert.EqualValues(t, 1, body["likes_count"])

	resp, body = doJSON(t, app, fiber.MethodPost, pathID("/api/comments/%d/like", commentID), reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 0, body["likes_count"])
}
