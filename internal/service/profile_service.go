package service

import (
	"context"
	"errors"
	"strings"

	"github.com/unheard/internal/db"
	"gorm.io/gorm"
)

// ErrProfileNotFound 在当前用户没有资料行时返回
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService 负责维护用户资料，与 handler 解耦
type ProfileService struct {
	db *gorm.DB
}

// ProfileInput 描述资料页表单可设置的字段
type ProfileInput struct {
	Name      string
	FullName  string
	AvatarURL string
	Bio       string
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Get returns the profile of actor.
func (s *ProfileService) Get(ctx context.Context, actor *Actor) (*db.User, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storeError("get profile", err)
	}
	return &user, nil
}

// Update overwrites the editable profile fields of actor. A missing profile
// row is recreated from the identity.
func (s *ProfileService) Update(ctx context.Context, actor *Actor, input ProfileInput) (*db.User, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	gdb := s.db.WithContext(ctx)

	var user db.User
	err := gdb.First(&user, "id = ?", actor.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = db.User{ID: actor.ID, Email: actor.Email}
	case err != nil:
		return nil, storeError("update profile", err)
	}

	user.Name = strings.TrimSpace(input.Name)
	user.FullName = strings.TrimSpace(input.FullName)
	user.AvatarURL = strings.TrimSpace(input.AvatarURL)
	user.Bio = strings.TrimSpace(input.Bio)

	if err := gdb.Save(&user).Error; err != nil {
		return nil, storeError("update profile", err)
	}
	return &user, nil
}
