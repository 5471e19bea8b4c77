package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/service"
)

const profilePath = "/profile"

type profileForm struct {
	Name      string `form:"name"`
	FullName  string `form:"full_name"`
	AvatarURL string `form:"avatar_url"`
	Bio       string `form:"bio"`
}

// ShowProfile 渲染个人资料页
func (a *API) ShowProfile(c *gin.Context) {
	actor := currentActor(c)

	profile, err := a.profiles.Get(c.Request.Context(), actor)
	if err != nil {
		if !errors.Is(err, service.ErrProfileNotFound) {
			c.Error(err)
		}
		profile = &db.User{ID: actor.ID, Email: actor.Email}
	}

	a.renderHTML(c, http.StatusOK, "profile.html", gin.H{
		"title":   "Profile",
		"profile": profile,
	})
}

// UpdateProfile 保存个人资料
func (a *API) UpdateProfile(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		encodedRedirect(c, errorOutcome("/sign-in", "You must be signed in to update your profile"))
		return
	}

	var form profileForm
	if err := c.ShouldBind(&form); err != nil {
		encodedRedirect(c, errorOutcome(profilePath, "Failed to update profile"))
		return
	}

	if _, err := a.profiles.Update(c.Request.Context(), actor, service.ProfileInput{
		Name:      form.Name,
		FullName:  form.FullName,
		AvatarURL: form.AvatarURL,
		Bio:       form.Bio,
	}); err != nil {
		slog.Error("error updating profile", "user_id", actor.ID, "error", err)
		encodedRedirect(c, errorOutcome(profilePath, "Failed to update profile"))
		return
	}

	encodedRedirect(c, successOutcome(profilePath, "Profile updated successfully"))
}
