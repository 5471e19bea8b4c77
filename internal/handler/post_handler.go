package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/service"
)

const dashboardPath = "/dashboard"

// ShowDashboard 渲染当前用户的文章列表（含草稿）
func (a *API) ShowDashboard(c *gin.Context) {
	actor := currentActor(c)

	posts, err := a.posts.ListByAuthor(c.Request.Context(), actor)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "dashboard.html", gin.H{
			"title": "Dashboard",
			"error": outcomeMessage(err, ""),
		})
		return
	}

	published := 0
	for _, post := range posts {
		if post.Published {
			published++
		}
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":          "Dashboard",
		"posts":          posts,
		"publishedCount": published,
		"draftCount":     len(posts) - published,
	})
}

// ShowCreatePost 渲染新建文章表单
func (a *API) ShowCreatePost(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, "Create content", &db.Post{ContentType: service.ContentTypeBlog}, nil)
}

// ShowEditPost 渲染编辑表单，只能编辑自己的文章
func (a *API) ShowEditPost(c *gin.Context) {
	post, err := a.posts.GetOwned(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			encodedRedirect(c, errorOutcome(dashboardPath, "Post not found or you don't have permission to edit it"))
			return
		}
		encodedRedirect(c, errorOutcome(dashboardPath, outcomeMessage(err, "")))
		return
	}

	selected := make([]string, 0, len(post.Categories))
	for _, category := range post.Categories {
		selected = append(selected, category.ID)
	}

	a.renderPostForm(c, http.StatusOK, "Edit content", post, selected)
}

func (a *API) renderPostForm(c *gin.Context, status int, title string, post *db.Post, selected []string) {
	categories, err := a.categories.List(c.Request.Context())
	if err != nil {
		c.Error(err)
	}

	a.renderHTML(c, status, "post_form.html", gin.H{
		"title":              title,
		"post":               post,
		"isEdit":             post.ID != "",
		"categories":         categories,
		"selectedCategories": selected,
		"contentTypes":       service.ContentTypes(),
		"uploadEndpoint":     "/dashboard/uploads",
	})
}

// CreatePost 处理新建文章表单
func (a *API) CreatePost(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		encodedRedirect(c, errorOutcome("/sign-in", "You must be logged in to create content"))
		return
	}

	input := service.CreatePostInput{
		Title:         c.PostForm("title"),
		Content:       c.PostForm("content"),
		Excerpt:       optionalPostForm(c, "excerpt"),
		FeaturedImage: optionalPostForm(c, "featuredImage"),
		ContentType:   c.PostForm("contentType"),
		Published:     c.PostForm("published") == "true",
		CategoryIDs:   c.PostFormArray("categories"),
	}

	if _, err := a.posts.Create(c.Request.Context(), actor, input); err != nil {
		encodedRedirect(c, errorOutcome(dashboardPath, outcomeMessage(err, "")))
		return
	}

	encodedRedirect(c, successOutcome(dashboardPath, "Content created successfully"))
}

// UpdatePost 处理编辑表单；published 字段总是随表单提交
func (a *API) UpdatePost(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		encodedRedirect(c, errorOutcome("/sign-in", "You must be logged in to update content"))
		return
	}

	published := c.PostForm("published") == "true"
	input := service.UpdatePostInput{
		ID:            c.PostForm("id"),
		Title:         nonEmptyPostForm(c, "title"),
		Content:       nonEmptyPostForm(c, "content"),
		Excerpt:       optionalPostForm(c, "excerpt"),
		FeaturedImage: optionalPostForm(c, "featuredImage"),
		ContentType:   nonEmptyPostForm(c, "contentType"),
		Published:     &published,
		CategoryIDs:   c.PostFormArray("categories"),
	}

	if _, err := a.posts.Update(c.Request.Context(), actor, input); err != nil {
		encodedRedirect(c, errorOutcome(dashboardPath, outcomeMessage(err, "Post not found or you don't have permission to edit it")))
		return
	}

	encodedRedirect(c, successOutcome(dashboardPath, "Content updated successfully"))
}

// DeletePost 删除当前用户的文章
func (a *API) DeletePost(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		encodedRedirect(c, errorOutcome("/sign-in", "You must be logged in to delete content"))
		return
	}

	if err := a.posts.Delete(c.Request.Context(), actor, c.PostForm("id")); err != nil {
		encodedRedirect(c, errorOutcome(dashboardPath, outcomeMessage(err, "Post not found or you don't have permission to delete it")))
		return
	}

	encodedRedirect(c, successOutcome(dashboardPath, "Content deleted successfully"))
}
