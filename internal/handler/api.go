package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/service"
	"gorm.io/gorm"
)

const siteName = "UnheardThoughts"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts      *service.PostService
	categories *service.CategoryService
	auth       *service.AuthService
	profiles   *service.ProfileService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		posts:      service.NewPostService(gdb),
		categories: service.NewCategoryService(gdb),
		auth:       service.NewAuthService(gdb),
		profiles:   service.NewProfileService(gdb),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// renderHTML 在向模板渲染时附加站点名称、当前用户与提示信息
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = siteName
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["currentUser"]; !exists {
		payload["currentUser"] = currentActor(c)
	}
	if _, exists := payload["success"]; !exists {
		payload["success"] = c.Query(string(OutcomeSuccess))
	}
	if _, exists := payload["error"]; !exists {
		payload["error"] = c.Query(string(OutcomeError))
	}

	c.HTML(status, template, payload)
}
