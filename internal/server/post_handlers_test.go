package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPostViaAPI(t *testing.T, app *fiber.App, token string, payload fiber.Map) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/posts", token, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "body: %v", body)
	post, ok := body["post"].(map[string]any)
	require.True(t, ok)
	return post
}

func TestCreateAndFetchPost(t *testing.T) {
	_, app, _ := newTestServer(t)
	token := signupUser(t, app, "writer")

	post := createPostViaAPI(t, app, token, fiber.Map{
		"title":        "My First Post!",
		"content":      "Some content worth reading.",
		"category":     "Technology",
		"is_published": true,
	})

	slug, ok := post["slug"].(string)
	require.True(t, ok)
	assert.Contains(t, slug, "my-first-post-")
	assert.EqualValues(t, 1, post["read_time"])
	assert.Equal(t, "Some content worth reading.", post["excerpt"])

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/posts/"+slug, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := body["post"].(map[string]any)
	assert.Equal(t, "My First Post!", got["title"])

	// Anonymous reads count as views.
	assert.EqualValues(t, 1, got["views"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/no-such-slug", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/posts", "", fiber.Map{
		"title": "t", "content": "c", "category": "Food",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDraftVisibility(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	stranger := signupUser(t, app, "stranger")

	draft := createPostViaAPI(t, app, author, fiber.Map{
		"title":    "Hidden Draft",
		"content":  "wip",
		"category": "Travel",
	})
	slug := draft["slug"].(string)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/posts/"+slug, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/"+slug, stranger, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/"+slug, author, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Drafts stay out of the public feed.
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/posts", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body["posts"])
}

func TestUpdatePostOwnership(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	stranger := signupUser(t, app, "stranger")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Original", "content": "body", "category": "Food", "is_published": true,
	})
	id := uint(post["id"].(float64))

	resp, _ := doJSON(t, app, fiber.MethodPut, pathID("/api/posts/%d", id), stranger, fiber.Map{
		"title": "Hijacked",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodPut, pathID("/api/posts/%d", id), author, fiber.Map{
		"title": "Updated Headline",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := body["post"].(map[string]any)
	assert.Equal(t, "Updated Headline", updated["title"])

	// A rename regenerates the slug; the post is reachable under the new one.
	newSlug := updated["slug"].(string)
	assert.NotEqual(t, post["slug"], newSlug)
	assert.Contains(t, newSlug, "updated-headline-")
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/"+newSlug, author, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/"+post["slug"].(string), author, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Doomed", "content": "body", "category": "Food", "is_published": true,
	})
	id := uint(post["id"].(float64))
	slug := post["slug"].(string)

	resp, _ := doJSON(t, app, fiber.MethodDelete, pathID("/api/posts/%d", id), author, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/posts/"+slug, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestToggleLikePostEndpoint(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")
	reader := signupUser(t, app, "reader")

	post := createPostViaAPI(t, app, author, fiber.Map{
		"title": "Likeable", "content": "body", "category": "Food", "is_published": true,
	})
	id := uint(post["id"].(float64))

	resp, body := doJSON(t, app, fiber.MethodPost, pathID("/api/posts/%d/like", id), reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["liked"])
	assert.EqualValues(t, 1, body["likes_count"])

	resp, body = doJSON(t, app, fiber.MethodPost, pathID("/api/posts/%d/like", id), reader, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 0, body["likes_count"])

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/posts/9999/like", reader, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/posts/abc/like", reader, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMyPostsIncludesDrafts(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")

	createPostViaAPI(t, app, author, fiber.Map{
		"title": "Live", "content": "body", "category": "Food", "is_published": true,
	})
	createPostViaAPI(t, app, author, fiber.Map{
		"title": "Draft", "content": "body", "category": "Food",
	})

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/users/me/posts", author, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 2)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/users/me/posts?status=draft", author, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "Draft", posts[0].(map[string]any)["title"])

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/users/me/posts?status=bogus", author, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostFeedFilters(t *testing.T) {
	_, app, _ := newTestServer(t)
	author := signupUser(t, app, "author")

	createPostViaAPI(t, app, author, fiber.Map{
		"title": "Go Tricks", "content": "body", "category": "Technology", "is_published": true,
	})
	createPostViaAPI(t, app, author, fiber.Map{
		"title": "Sourdough Diary", "content": "body", "category": "Food", "is_published": true,
	})

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/posts?category=Food", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "Sourdough Diary", posts[0].(map[string]any)["title"])

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/posts?search=go+tricks", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	posts = body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "Go Tricks", posts[0].(map[string]any)["title"])

	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["total"])
}
