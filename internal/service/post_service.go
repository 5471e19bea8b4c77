package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/unheard/internal/db"
	"gorm.io/gorm"
)

// PostService wraps post related database operations. It keeps no state
// between calls; every operation re-reads what it checks.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// CreatePostInput represents the fields accepted when creating a post.
// Nil pointers mean the field was not submitted.
type CreatePostInput struct {
	Title         string
	Content       string
	Excerpt       *string
	FeaturedImage *string
	ContentType   string
	Published     bool
	CategoryIDs   []string
}

// UpdatePostInput carries a partial update. Only non-nil fields are applied.
type UpdatePostInput struct {
	ID            string
	Title         *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	ContentType   *string
	Published     *bool
	CategoryIDs   []string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// Create validates the input, derives the slug and persists the post for
// actor. Category links are best effort: a failure is logged and the post
// is still returned.
func (s *PostService) Create(ctx context.Context, actor *Actor, input CreatePostInput) (*db.Post, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrTitleContentRequired
	}

	gdb := s.db.WithContext(ctx)

	slug, err := uniquePostSlug(gdb, Slugify(title), "")
	if err != nil {
		return nil, storeError("create post", err)
	}

	post := db.Post{
		Title:         title,
		Slug:          slug,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		FeaturedImage: input.FeaturedImage,
		ContentType:   normalizeContentType(input.ContentType),
		Published:     input.Published,
		AuthorID:      actor.ID,
	}
	if input.Published {
		publishedAt := s.now()
		post.PublishedAt = &publishedAt
	}

	if err := gdb.Create(&post).Error; err != nil {
		slog.Error("error creating post", "author_id", actor.ID, "error", err)
		return nil, storeError("create post", err)
	}

	if ids := normalizeIDs(input.CategoryIDs); len(ids) > 0 {
		if err := insertPostCategories(gdb, post.ID, ids); err != nil {
			slog.Warn("error adding categories", "category", "content", "post_id", post.ID, "error", err)
		}
	}

	return &post, nil
}

// Update applies a partial update to a post owned by actor.
func (s *PostService) Update(ctx context.Context, actor *Actor, input UpdatePostInput) (*db.Post, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, ErrPostIDRequired
	}

	gdb := s.db.WithContext(ctx)

	existing, err := findOwnedPost(gdb, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title := trimmedValue(input.Title); title != "" {
		slug, err := uniquePostSlug(gdb, Slugify(title), existing.ID)
		if err != nil {
			return nil, storeError("update post", err)
		}
		updates["title"] = title
		updates["slug"] = slug
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		updates["content"] = *input.Content
	}
	if input.Excerpt != nil {
		updates["excerpt"] = *input.Excerpt
	}
	if input.FeaturedImage != nil {
		updates["featured_image"] = *input.FeaturedImage
	}
	if contentType := trimmedValue(input.ContentType); contentType != "" {
		updates["content_type"] = contentType
	}
	if input.Published != nil {
		updates["published"] = *input.Published
		// published_at is written once, on the first publish.
		if *input.Published && existing.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
	}

	if len(updates) > 0 {
		if err := gdb.Model(&db.Post{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			slog.Error("error updating post", "post_id", existing.ID, "error", err)
			return nil, storeError("update post", err)
		}
	}

	if ids := normalizeIDs(input.CategoryIDs); len(ids) > 0 {
		if err := replacePostCategories(gdb, existing.ID, ids); err != nil {
			slog.Warn("error updating categories", "category", "content", "post_id", existing.ID, "error", err)
		}
	}

	var post db.Post
	if err := gdb.First(&post, "id = ?", existing.ID).Error; err != nil {
		return nil, storeError("update post", err)
	}
	return &post, nil
}

// Delete removes a post owned by actor together with its category links.
func (s *PostService) Delete(ctx context.Context, actor *Actor, id string) error {
	if err := actor.check(); err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return ErrPostIDRequired
	}

	gdb := s.db.WithContext(ctx)

	existing, err := findOwnedPost(gdb, actor, id)
	if err != nil {
		return err
	}

	if err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", existing.ID).Delete(&db.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND author_id = ?", existing.ID, actor.ID).Delete(&db.Post{}).Error
	}); err != nil {
		slog.Error("error deleting post", "post_id", existing.ID, "error", err)
		return storeError("delete post", err)
	}

	return nil
}

// ListPublished returns published posts, newest publication first.
func (s *PostService) ListPublished(ctx context.Context) ([]db.Post, error) {
	return s.listPublished(ctx, 0)
}

// ListRecentPublished returns at most limit published posts.
func (s *PostService) ListRecentPublished(ctx context.Context, limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.listPublished(ctx, limit)
}

func (s *PostService) listPublished(ctx context.Context, limit int) ([]db.Post, error) {
	query := s.db.WithContext(ctx).
		Preload("Author").
		Where("published = ?", true).
		Order("published_at desc").
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, storeError("list published posts", err)
	}
	return posts, nil
}

// ListByAuthor returns every post of actor, drafts included, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, actor *Actor) ([]db.Post, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	var posts []db.Post
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", actor.ID).
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, storeError("list posts", err)
	}
	return posts, nil
}

// GetPublishedBySlug fetches a published post with its author and categories.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*db.Post, error) {
	gdb := s.db.WithContext(ctx)

	var post db.Post
	if err := gdb.Preload("Author").
		Where("slug = ? AND published = ?", strings.TrimSpace(slug), true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeError("get post", err)
	}

	categories, err := categoriesForPost(gdb, post.ID)
	if err != nil {
		return nil, storeError("get post", err)
	}
	post.Categories = categories
	return &post, nil
}

// GetOwned fetches a post of actor for editing, with its categories.
func (s *PostService) GetOwned(ctx context.Context, actor *Actor, id string) (*db.Post, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}

	gdb := s.db.WithContext(ctx)
	post, err := findOwnedPost(gdb, actor, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	categories, err := categoriesForPost(gdb, post.ID)
	if err != nil {
		return nil, storeError("get post", err)
	}
	post.Categories = categories
	return post, nil
}

// CategoryIDs returns the ids of the categories linked to postID.
func (s *PostService) CategoryIDs(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&db.PostCategory{}).
		Where("post_id = ?", postID).
		Order("category_id asc").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, storeError("list post categories", err)
	}
	return ids, nil
}

func findOwnedPost(tx *gorm.DB, actor *Actor, id string) (*db.Post, error) {
	if id == "" {
		return nil, ErrPostNotFound
	}

	var post db.Post
	if err := tx.Where("id = ? AND author_id = ?", id, actor.ID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeError("get post", err)
	}
	return &post, nil
}

func categoriesForPost(tx *gorm.DB, postID string) ([]db.Category, error) {
	var categories []db.Category
	if err := tx.Model(&db.Category{}).
		Joins("JOIN post_categories ON post_categories.category_id = categories.id").
		Where("post_categories.post_id = ?", postID).
		Order("categories.name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func insertPostCategories(tx *gorm.DB, postID string, categoryIDs []string) error {
	rows := make([]db.PostCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		rows = append(rows, db.PostCategory{PostID: postID, CategoryID: categoryID})
	}
	return tx.Create(&rows).Error
}

// replacePostCategories swaps the whole association set; it is not a diff.
func replacePostCategories(tx *gorm.DB, postID string, categoryIDs []string) error {
	return tx.Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("post_id = ?", postID).Delete(&db.PostCategory{}).Error; err != nil {
			return err
		}
		return insertPostCategories(inner, postID, categoryIDs)
	})
}

// normalizeIDs drops blanks and duplicates, keeping first-seen order.
func normalizeIDs(values []string) []string {
	ids := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func trimmedValue(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
