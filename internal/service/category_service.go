package service

import (
	"context"
	"errors"
	"strings"

	"github.com/unheard/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// CategoryCount 是分类及其已发布文章数量的查询投影
type CategoryCount struct {
	db.Category
	PostCount int64 `json:"post_count"`
}

// ListWithPublishedCounts 返回所有分类及其已发布文章数量
func (s *CategoryService) ListWithPublishedCounts(ctx context.Context) ([]CategoryCount, error) {
	var categories []CategoryCount
	if err := s.db.WithContext(ctx).
		Model(&db.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Joins("LEFT JOIN posts ON posts.id = post_categories.post_id AND posts.published = ?", true).
		Group("categories.id").
		Order("categories.name asc").
		Scan(&categories).Error; err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// GetBySlug fetches a category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", strings.TrimSpace(slug)).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storeError("get category", err)
	}
	return &category, nil
}

// Create inserts a new category with a unique name and derived slug.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	gdb := s.db.WithContext(ctx)
	slug := Slugify(name)

	var count int64
	if err := gdb.Model(&db.Category{}).
		Where("name = ? OR slug = ?", name, slug).
		Count(&count).Error; err != nil {
		return nil, storeError("create category", err)
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name, Slug: slug}
	if desc := strings.TrimSpace(description); desc != "" {
		category.Description = &desc
	}
	if err := gdb.Create(&category).Error; err != nil {
		return nil, storeError("create category", err)
	}
	return &category, nil
}

// CategorySeed describes one reference category created on first start.
type CategorySeed struct {
	Name        string
	Description string
}

// DefaultCategories 是首次启动时写入的分类参考数据
var DefaultCategories = []CategorySeed{
	{Name: "Communication", Description: "Saying what usually goes unsaid"},
	{Name: "Emotions", Description: "Naming and understanding hidden feelings"},
	{Name: "Mindfulness", Description: "Quiet attention to the present moment"},
	{Name: "Relationships", Description: "Silent conversations between people"},
	{Name: "Self-Expression", Description: "Finding a voice for inner thoughts"},
}

// Seed 通过 Create 写入参考分类，已存在的分类跳过，可重复执行。返回新建数量。
func (s *CategoryService) Seed(ctx context.Context, seeds []CategorySeed) (int, error) {
	created := 0
	for _, seed := range seeds {
		_, err := s.Create(ctx, seed.Name, seed.Description)
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrCategoryExists), errors.Is(err, ErrCategoryNameRequired):
			continue
		default:
			return created, err
		}
	}
	return created, nil
}
