// seed 写入演示作者与几篇示例内容，便于本地预览各内容分组。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/unheard/internal/config"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/service"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type demoPost struct {
	title       string
	content     string
	excerpt     string
	contentType string
	published   bool
	categories  []string
}

var demoPosts = []demoPost{
	{
		title:       "The Things We Never Say",
		content:     "Some thoughts stay quiet for years.\n\nThis is a place to finally write them down.",
		excerpt:     "On the thoughts that stay quiet for years.",
		contentType: service.ContentTypeBlog,
		published:   true,
		categories:  []string{"emotions", "self-expression"},
	},
	{
		title:       "Navigating Silent Conversations",
		content:     "## Start small\n\n1. Name the feeling.\n2. Pick a calm moment.\n3. Say **one** true sentence.",
		excerpt:     "A short guide to saying the hard thing.",
		contentType: service.ContentTypeGuide,
		published:   true,
		categories:  []string{"communication"},
	},
	{
		title:       "Journaling vs. Talking It Out",
		content:     "| | Journaling | Talking |\n|---|---|---|\n| Private | yes | no |\n| Feedback | none | immediate |",
		contentType: service.ContentTypeComparison,
		published:   true,
		categories:  []string{"self-expression", "relationships"},
	},
	{
		title:       "Letter I Haven't Sent",
		content:     "Still drafting.",
		contentType: service.ContentTypeBlog,
	},
}

func main() {
	email := flag.String("email", "demo@unheard.local", "demo author email")
	password := flag.String("password", "unheard123", "demo author password")
	name := flag.String("name", "Demo Author", "demo author display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN(), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}); err != nil {
		slog.Error("数据库初始化失败", "error", err)
		os.Exit(1)
	}

	created, err := seedDemo(context.Background(), db.DB, service.SignUpInput{Email: *email, Password: *password, FullName: *name})
	if err != nil {
		slog.Error("seed demo content", "error", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 演示数据写入完成，新增 %d 篇内容（登录邮箱 %s）\n", created, *email)
}

// seedDemo 创建演示作者并写入示例内容。作者已存在时跳过，返回新增的内容数。
func seedDemo(ctx context.Context, gdb *gorm.DB, author service.SignUpInput) (int, error) {
	categories := service.NewCategoryService(gdb)
	if _, err := categories.Seed(ctx, service.DefaultCategories); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}

	auth := service.NewAuthService(gdb)
	actor, err := auth.SignUp(ctx, author)
	if errors.Is(err, service.ErrEmailTaken) {
		slog.Info("演示作者已存在，跳过", "email", author.Email)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create demo author: %w", err)
	}

	posts := service.NewPostService(gdb)

	created := 0
	for _, item := range demoPosts {
		var ids []string
		for _, slug := range item.categories {
			category, err := categories.GetBySlug(ctx, slug)
			if err != nil {
				slog.Warn("分类不存在，忽略", "slug", slug, "error", err)
				continue
			}
			ids = append(ids, category.ID)
		}

		input := service.CreatePostInput{
			Title:       item.title,
			Content:     item.content,
			ContentType: item.contentType,
			Published:   item.published,
			CategoryIDs: ids,
		}
		if item.excerpt != "" {
			excerpt := item.excerpt
			input.Excerpt = &excerpt
		}
		if _, err := posts.Create(ctx, actor, input); err != nil {
			return created, fmt.Errorf("create %q: %w", item.title, err)
		}
		created++
	}
	return created, nil
}
