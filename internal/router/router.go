package router

import (
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/handler"
	"github.com/unheard/internal/middleware"
	"github.com/unheard/internal/service"
	"github.com/unheard/web"
	"gorm.io/gorm"
)

const sessionName = "unheard_session"

// Options 控制路由层的可调参数
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURLPath string
	SecureCookies bool
	SignInRate    float64
	SignInBurst   int
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) (*gin.Engine, error) {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "template/*.html")
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	uploadURL := "/" + strings.Trim(opts.UploadURLPath, "/")
	if uploadURL != "/" && opts.UploadDir != "" {
		r.Static(uploadURL, opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := handler.NewAPI(gdb, opts.UploadDir, uploadURL)
	limiter := middleware.NewSignInLimiter(opts.SignInRate, opts.SignInBurst)

	r.Use(api.LoadActor())
	r.NoRoute(api.NotFound)

	// 前台路由
	r.GET("/", api.ShowHome)
	r.GET("/posts", api.ShowPosts)
	r.GET("/posts/:slug", api.ShowPostDetail)

	r.GET("/sign-up", api.ShowSignUp)
	r.POST("/sign-up", limiter.Middleware("/sign-up"), api.SignUp)
	r.GET("/sign-in", api.ShowSignIn)
	r.POST("/sign-in", limiter.Middleware("/sign-in"), api.SignIn)
	r.POST("/sign-out", api.SignOut)

	// 写操作自行检查登录状态，以便返回各自的提示
	dashboard := r.Group("/dashboard")
	{
		dashboard.POST("/posts", api.CreatePost)
		dashboard.POST("/posts/update", api.UpdatePost)
		dashboard.POST("/posts/delete", api.DeletePost)
		dashboard.POST("/reset-password", api.ResetPassword)
		dashboard.POST("/uploads", handler.AuthRequired(), api.UploadImage)

		pages := dashboard.Group("", handler.AuthRequired())
		{
			pages.GET("", api.ShowDashboard)
			pages.GET("/create-post", api.ShowCreatePost)
			pages.GET("/edit-post/:id", api.ShowEditPost)
			pages.GET("/reset-password", api.ShowResetPassword)
		}
	}

	r.GET("/profile", handler.AuthRequired(), api.ShowProfile)
	r.POST("/profile", api.UpdateProfile)

	// 只读 JSON 接口
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/posts", api.ListPostsJSON)
		apiGroup.GET("/posts/:slug", api.GetPostJSON)
		apiGroup.GET("/categories", api.ListCategoriesJSON)
	}

	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"contentTypeLabel": service.ContentTypeLabel,
		"displayName": func(u *db.User) string {
			return u.DisplayName()
		},
		"contains": func(values []string, target string) bool {
			for _, v := range values {
				if v == target {
					return true
				}
			}
			return false
		},
	}
}
