package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/unheard/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const homeRecentLimit = 6

// ShowHome renders the landing page with recent stories and category blocks.
func (a *API) ShowHome(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := a.posts.ListRecentPublished(ctx, homeRecentLimit)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "Home",
			"error": "Failed to load posts",
		})
		return
	}

	categories, err := a.categories.ListWithPublishedCounts(ctx)
	if err != nil {
		c.Error(err) // 分类块缺失不影响首页渲染
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":      "Home",
		"posts":      recent,
		"categories": categories,
	})
}

// ShowPosts renders every published post grouped by content type.
func (a *API) ShowPosts(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "posts.html", gin.H{
			"title": "Unspoken Narratives",
			"error": "Failed to load posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "posts.html", gin.H{
		"title":        "Unspoken Narratives",
		"groups":       service.GroupByContentType(posts),
		"contentTypes": service.ContentTypes(),
	})
}

// ShowPostDetail renders a published post with markdown content.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrPostNotFound) {
			status = http.StatusNotFound
		}
		a.renderHTML(c, status, "not_found.html", gin.H{"title": "Not found"})
		return
	}

	htmlContent, err := renderMarkdown(post.Content)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "post_detail.html", gin.H{
			"title": post.Title,
			"post":  post,
			"error": "Failed to render content",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":   post.Title,
		"post":    post,
		"content": htmlContent,
		"label":   service.ContentTypeLabel(post.ContentType),
	})
}

// NotFound renders the fallback page for unknown routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

// ListPostsJSON 返回已发布文章，可按 type 过滤
func (a *API) ListPostsJSON(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if contentType := c.Query("type"); contentType != "" {
		posts = service.GroupByContentType(posts).Get(contentType)
	}
	if limit := parsePositiveInt(c.Query("limit"), 0); limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetPostJSON 按 slug 返回已发布文章
func (a *API) GetPostJSON(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListCategoriesJSON 返回按名称排序的分类
func (a *API) ListCategoriesJSON(c *gin.Context) {
	categories, err := a.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
