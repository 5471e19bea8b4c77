package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/service"
)

func createCategory(t *testing.T, env *handlerEnv, name string) db.Category {
	t.Helper()
	category, err := service.NewCategoryService(env.db).Create(context.Background(), name, "")
	require.NoError(t, err)
	return *category
}

func TestCreatePostRedirectsWithSuccess(t *testing.T) {
	env := newHandlerEnv(t, true)
	category := createCategory(t, env, "Emotions")

	rec := env.do(postForm("/dashboard/posts", url.Values{
		"title":       {"My Trip"},
		"content":     {"Went hiking"},
		"excerpt":     {"short"},
		"contentType": {"guide"},
		"published":   {"true"},
		"categories":  {category.ID},
	}))

	path, status, msg := redirectOutcome(t, rec)
	assert.Equal(t, "/dashboard", path)
	assert.Equal(t, OutcomeSuccess, status)
	assert.Equal(t, "Content created successfully", msg)

	var post db.Post
	require.NoError(t, env.db.First(&post, "slug = ?", "my-trip").Error)
	assert.Equal(t, env.actor.ID, post.AuthorID)
	assert.Equal(t, "guide", post.ContentType)
	assert.True(t, post.Published)
	assert.NotNil(t, post.PublishedAt)
	require.NotNil(t, post.Excerpt)
	assert.Equal(t, "short", *post.Excerpt)

	var links int64
	require.NoError(t, env.db.Model(&db.PostCategory{}).Where("post_id = ?", post.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestCreatePostDefaultsToDraftBlog(t *testing.T) {
	env := newHandlerEnv(t, true)

	rec := env.do(postForm("/dashboard/posts", url.Values{
		"title":     {"Quiet"},
		"content":   {"body"},
		"published": {"on"},
	}))
	_, status, _ := redirectOutcome(t, rec)
	require.Equal(t, OutcomeSuccess, status)

	var post db.Post
	require.NoError(t, env.db.First(&post, "slug = ?", "quiet").Error)
	assert.Equal(t, service.ContentTypeBlog, post.ContentType)
	assert.False(t, post.Published, "only the literal \"true\" publishes")
	assert.Nil(t, post.PublishedAt)
}

func TestCreatePostValidationError(t *testing.T) {
	env := newHandlerEnv(t, true)

	rec := env.do(postForm("/dashboard/posts", url.Values{"title": {"Only a title"}}))

	path, status, msg := redirectOutcome(t, rec)
	assert.Equal(t, "/dashboard", path)
	assert.Equal(t, OutcomeError, status)
	assert.Equal(t, "Title and content are required", msg)

	var count int64
	require.NoError(t, env.db.Model(&db.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWriteHandlersRequireSignIn(t *testing.T) {
	env := newHandlerEnv(t, false)

	cases := []struct {
		target string
		want   string
	}{
		{"/dashboard/posts", "You must be logged in to create content"},
		{"/dashboard/posts/update", "You must be logged in to update content"},
		{"/dashboard/posts/delete", "You must be logged in to delete content"},
		{"/profile", "You must be signed in to update your profile"},
	}
	for _, tc := range cases {
		rec := env.do(postForm(tc.target, url.Values{"id": {"x"}, "title": {"t"}, "content": {"c"}}))
		path, status, msg := redirectOutcome(t, rec)
		assert.Equal(t, "/sign-in", path, tc.target)
		assert.Equal(t, OutcomeError, status, tc.target)
		assert.Equal(t, tc.want, msg, tc.target)
	}
}

func TestDashboardPagesRedirectAnonymous(t *testing.T) {
	env := newHandlerEnv(t, false)

	for _, target := range []string{"/dashboard", "/dashboard/create-post", "/dashboard/edit-post/abc", "/profile"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, target, nil))
		path, status, msg := redirectOutcome(t, rec)
		assert.Equal(t, "/sign-in", path, target)
		assert.Equal(t, OutcomeError, status, target)
		assert.NotEmpty(t, msg, target)
	}
}

func TestUpdatePostAppliesFormAndUnpublishes(t *testing.T) {
	env := newHandlerEnv(t, true)
	posts := service.NewPostService(env.db)
	ctx := context.Background()

	post, err := posts.Create(ctx, env.actor, service.CreatePostInput{Title: "Before", Content: "body", Published: true})
	require.NoError(t, err)

	rec := env.do(postForm("/dashboard/posts/update", url.Values{
		"id":      {post.ID},
		"title":   {"After Edit"},
		"content": {""},
		"excerpt": {""},
	}))
	_, status, msg := redirectOutcome(t, rec)
	require.Equal(t, OutcomeSuccess, status)
	assert.Equal(t, "Content updated successfully", msg)

	var stored db.Post
	require.NoError(t, env.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "After Edit", stored.Title)
	assert.Equal(t, "after-edit", stored.Slug)
	assert.Equal(t, "body", stored.Content, "empty content keeps the stored body")
	assert.False(t, stored.Published, "an unchecked box unpublishes")
	assert.NotNil(t, stored.PublishedAt)
	require.NotNil(t, stored.Excerpt)
	assert.Equal(t, "", *stored.Excerpt)
}

func TestUpdateAndDeleteForeignPostLookLikeMissing(t *testing.T) {
	env := newHandlerEnv(t, true)
	owner := createUser(t, env.db, "owner@example.com")

	post, err := service.NewPostService(env.db).Create(context.Background(), owner, service.CreatePostInput{Title: "Not yours", Content: "body"})
	require.NoError(t, err)

	for _, id := range []string{post.ID, "does-not-exist"} {
		rec := env.do(postForm("/dashboard/posts/update", url.Values{"id": {id}, "title": {"Hijack"}}))
		_, status, msg := redirectOutcome(t, rec)
		assert.Equal(t, OutcomeError, status)
		assert.Equal(t, "Post not found or you don't have permission to edit it", msg)

		rec = env.do(postForm("/dashboard/posts/delete", url.Values{"id": {id}}))
		_, status, msg = redirectOutcome(t, rec)
		assert.Equal(t, OutcomeError, status)
		assert.Equal(t, "Post not found or you don't have permission to delete it", msg)
	}

	var stored db.Post
	require.NoError(t, env.db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "Not yours", stored.Title)
}

func TestUpdatePostRequiresID(t *testing.T) {
	env := newHandlerEnv(t, true)

	rec := env.do(postForm("/dashboard/posts/update", url.Values{"title": {"x"}}))
	_, status, msg := redirectOutcome(t, rec)
	assert.Equal(t, OutcomeError, status)
	assert.Equal(t, "Post ID is required", msg)
}

func TestDeletePostRemovesPost(t *testing.T) {
	env := newHandlerEnv(t, true)
	category := createCategory(t, env, "Emotions")

	post, err := service.NewPostService(env.db).Create(context.Background(), env.actor, service.CreatePostInput{
		Title:       "Temporary",
		Content:     "body",
		CategoryIDs: []string{category.ID},
	})
	require.NoError(t, err)

	rec := env.do(postForm("/dashboard/posts/delete", url.Values{"id": {post.ID}}))
	_, status, msg := redirectOutcome(t, rec)
	require.Equal(t, OutcomeSuccess, status)
	assert.Equal(t, "Content deleted successfully", msg)

	var count int64
	require.NoError(t, env.db.Model(&db.Post{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Model(&db.PostCategory{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestShowDashboardListsOwnPosts(t *testing.T) {
	env := newHandlerEnv(t, true)
	posts := service.NewPostService(env.db)
	ctx := context.Background()
	other := createUser(t, env.db, "other@example.com")

	_, err := posts.Create(ctx, env.actor, service.CreatePostInput{Title: "Draft", Content: "b"})
	require.NoError(t, err)
	_, err = posts.Create(ctx, env.actor, service.CreatePostInput{Title: "Live", Content: "b", Published: true})
	require.NoError(t, err)
	_, err = posts.Create(ctx, other, service.CreatePostInput{Title: "Other", Content: "b", Published: true})
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard.html", env.html.last.name)

	data := env.html.payload(t)
	listed, ok := data["posts"].([]db.Post)
	require.True(t, ok)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, data["publishedCount"])
	assert.Equal(t, 1, data["draftCount"])
	assert.Equal(t, env.actor, data["currentUser"])
}

func TestShowEditPostPreselectsCategories(t *testing.T) {
	env := newHandlerEnv(t, true)
	emotions := createCategory(t, env, "Emotions")
	createCategory(t, env, "Mindfulness")

	post, err := service.NewPostService(env.db).Create(context.Background(), env.actor, service.CreatePostInput{
		Title:       "Editable",
		Content:     "body",
		CategoryIDs: []string{emotions.ID},
	})
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/dashboard/edit-post/"+post.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "post_form.html", env.html.last.name)

	data := env.html.payload(t)
	assert.Equal(t, true, data["isEdit"])
	assert.Equal(t, []string{emotions.ID}, data["selectedCategories"])
	categories, ok := data["categories"].([]db.Category)
	require.True(t, ok)
	assert.Len(t, categories, 2)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/dashboard/edit-post/unknown", nil))
	_, status, _ := redirectOutcome(t, rec)
	assert.Equal(t, OutcomeError, status)
}
