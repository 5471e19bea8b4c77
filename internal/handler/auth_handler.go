package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/service"
)

const (
	sessionUserKey  = "user_id"
	actorContextKey = "__actor"
)

type signUpForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	FullName string `form:"full_name"`
}

type signInForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ShowSignUp 渲染注册页面
func (a *API) ShowSignUp(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "sign_up.html", gin.H{"title": "Sign up"})
}

// SignUp 处理注册表单
func (a *API) SignUp(c *gin.Context) {
	var form signUpForm
	if err := c.ShouldBind(&form); err != nil {
		encodedRedirect(c, errorOutcome("/sign-up", "Email and password are required"))
		return
	}

	actor, err := a.auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
	})
	if err != nil {
		slog.Info("sign up rejected", "category", "auth", "error", err)
		encodedRedirect(c, errorOutcome("/sign-up", outcomeMessage(err, "")))
		return
	}

	slog.Info("user signed up", "category", "auth", "user_id", actor.ID)
	encodedRedirect(c, successOutcome("/sign-up", "Thanks for signing up! You can now sign in."))
}

// ShowSignIn 渲染登录页面
func (a *API) ShowSignIn(c *gin.Context) {
	if currentActor(c) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	a.renderHTML(c, http.StatusOK, "sign_in.html", gin.H{"title": "Sign in"})
}

// SignIn 处理登录请求
func (a *API) SignIn(c *gin.Context) {
	var form signInForm
	if err := c.ShouldBind(&form); err != nil {
		encodedRedirect(c, errorOutcome("/sign-in", "Email and password are required"))
		return
	}

	actor, err := a.auth.SignIn(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		encodedRedirect(c, errorOutcome("/sign-in", outcomeMessage(err, "")))
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserKey, actor.ID)
	if err := session.Save(); err != nil {
		slog.Error("error saving session", "category", "auth", "error", err)
		encodedRedirect(c, errorOutcome("/sign-in", "Could not start session"))
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// SignOut 清除会话
func (a *API) SignOut(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		slog.Warn("error clearing session", "category", "auth", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/sign-in")
}

// ShowResetPassword 渲染修改密码页面
func (a *API) ShowResetPassword(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "reset_password.html", gin.H{"title": "Reset password"})
}

// ResetPassword 修改当前用户的密码
func (a *API) ResetPassword(c *gin.Context) {
	const path = "/dashboard/reset-password"

	actor := currentActor(c)
	if actor == nil {
		encodedRedirect(c, errorOutcome("/sign-in", "You must be signed in to reset your password"))
		return
	}

	password := c.PostForm("password")
	confirm := c.PostForm("confirmPassword")

	err := a.auth.ChangePassword(c.Request.Context(), actor, password, confirm)
	switch {
	case err == nil:
		encodedRedirect(c, successOutcome(path, "Password updated"))
	case password == "" || confirm == "":
		encodedRedirect(c, errorOutcome(path, "Password and confirm password are required"))
	case isValidationError(err):
		encodedRedirect(c, errorOutcome(path, outcomeMessage(err, "")))
	default:
		slog.Error("error updating password", "category", "auth", "user_id", actor.ID, "error", err)
		encodedRedirect(c, errorOutcome(path, "Password update failed"))
	}
}

// LoadActor resolves the session user into the request context. A session
// pointing at an unknown identity is cleared.
func (a *API) LoadActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(sessionUserKey).(string)
		if id == "" {
			c.Next()
			return
		}

		actor, err := a.auth.Actor(c.Request.Context(), id)
		if errors.Is(err, service.ErrUnauthenticated) {
			slog.Warn("dropping stale session", "category", "auth", "error", err)
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}
		if err != nil {
			slog.Error("load session actor", "category", "auth", "error", err)
			c.Next()
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// AuthRequired 在未登录时跳转到登录页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentActor(c) == nil {
			encodedRedirect(c, errorOutcome("/sign-in", "Please sign in to continue"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentActor(c *gin.Context) *service.Actor {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return nil
	}
	actor, _ := value.(*service.Actor)
	return actor
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrPasswordMismatch) ||
		errors.Is(err, service.ErrPasswordTooShort) ||
		errors.Is(err, service.ErrCredentialsRequired)
}
