package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 定义了文章模型
type Post struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Excerpt       *string    `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image"`
	ContentType   string     `gorm:"not null;index" json:"content_type"`
	Published     bool       `gorm:"not null;index" json:"published"`
	PublishedAt   *time.Time `gorm:"index" json:"published_at"`
	AuthorID      string     `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author        *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Categories []Category `gorm:"-" json:"categories,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DisplayDate is the published time, or the creation time for drafts.
func (p Post) DisplayDate() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// ExcerptText returns the excerpt or an empty string.
func (p Post) ExcerptText() string {
	if p.Excerpt == nil {
		return ""
	}
	return *p.Excerpt
}

// FeaturedImageURL returns the featured image or an empty string.
func (p Post) FeaturedImageURL() string {
	if p.FeaturedImage == nil {
		return ""
	}
	return *p.FeaturedImage
}

// PostCategory 是文章与分类的关联行，每个 (post, category) 组合唯一
type PostCategory struct {
	PostID     string    `gorm:"primaryKey;type:varchar(36)" json:"post_id"`
	CategoryID string    `gorm:"primaryKey;type:varchar(36);index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`

	Post     *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"-"`
}
