package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity 保存登录凭据；ID 在注册时生成，并作为 users 表的主键镜像保存
type Identity struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (i *Identity) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// User 定义了用户资料模型
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Email     string    `gorm:"index" json:"email"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName prefers the full name, then the short name, then the email.
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return "Anonymous"
	}
}
