package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/service"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct {
	last *stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	instance := &stubHTMLInstance{name: name, data: data}
	r.last = instance
	return instance
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func (r *stubHTMLRender) payload(t *testing.T) gin.H {
	t.Helper()
	require.NotNil(t, r.last, "expected a template to be rendered")
	data, ok := r.last.data.(gin.H)
	require.True(t, ok, "unexpected payload type %T", r.last.data)
	return data
}

type handlerEnv struct {
	db     *gorm.DB
	api    *API
	router *gin.Engine
	html   *stubHTMLRender
	actor  *service.Actor
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.DriverSQLite, dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open test db")
	require.NoError(t, db.Migrate(gdb), "migrate test db")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// newHandlerEnv wires the routes under test. When signedIn is set, a user is
// created and injected into every request in place of a session.
func newHandlerEnv(t *testing.T, signedIn bool) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	api := NewAPI(gdb, t.TempDir(), "/uploads")
	html := &stubHTMLRender{}

	var actor *service.Actor
	if signedIn {
		actor = createUser(t, gdb, "author@example.com")
	}

	r := gin.New()
	r.HTMLRender = html
	r.Use(sessions.Sessions("unheard_session", cookie.NewStore([]byte("test-secret"))))
	if actor != nil {
		r.Use(func(c *gin.Context) {
			c.Set(actorContextKey, actor)
			c.Next()
		})
	} else {
		r.Use(api.LoadActor())
	}

	r.GET("/", api.ShowHome)
	r.GET("/posts", api.ShowPosts)
	r.GET("/posts/:slug", api.ShowPostDetail)
	r.POST("/sign-up", api.SignUp)
	r.POST("/sign-in", api.SignIn)
	r.POST("/sign-out", api.SignOut)
	r.GET("/api/posts", api.ListPostsJSON)
	r.GET("/api/posts/:slug", api.GetPostJSON)
	r.GET("/api/categories", api.ListCategoriesJSON)

	dashboard := r.Group("/dashboard")
	dashboard.POST("/posts", api.CreatePost)
	dashboard.POST("/posts/update", api.UpdatePost)
	dashboard.POST("/posts/delete", api.DeletePost)
	dashboard.POST("/uploads", AuthRequired(), api.UploadImage)
	dashboard.POST("/reset-password", api.ResetPassword)
	pages := dashboard.Group("", AuthRequired())
	pages.GET("", api.ShowDashboard)
	pages.GET("/create-post", api.ShowCreatePost)
	pages.GET("/edit-post/:id", api.ShowEditPost)
	r.GET("/profile", AuthRequired(), api.ShowProfile)
	r.POST("/profile", api.UpdateProfile)

	return &handlerEnv{db: gdb, api: api, router: r, html: html, actor: actor}
}

func createUser(t *testing.T, gdb *gorm.DB, email string) *service.Actor {
	t.Helper()
	user := db.User{ID: uuid.NewString(), Email: email}
	require.NoError(t, gdb.Create(&user).Error)
	return &service.Actor{ID: user.ID, Email: email}
}

func (e *handlerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// redirectOutcome splits a 303 Location into its path, status and message.
func redirectOutcome(t *testing.T, rec *httptest.ResponseRecorder) (string, OutcomeStatus, string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	query := location.Query()
	if msg := query.Get(string(OutcomeSuccess)); msg != "" {
		return location.Path, OutcomeSuccess, msg
	}
	return location.Path, OutcomeError, query.Get(string(OutcomeError))
}
