package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/unheard/internal/db"
	"gorm.io/gorm"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

const (
	fallbackSlug    = "post"
	maxSlugAttempts = 1000
)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// IsValidSlug reports whether s could have been produced by Slugify.
func IsValidSlug(s string) bool {
	return s != "" && Slugify(s) == s
}

// uniquePostSlug returns base, or base-2, base-3, ... when base is already
// taken by another post. excludeID skips the post being renamed.
func uniquePostSlug(tx *gorm.DB, base, excludeID string) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		query := tx.Model(&db.Post{}).Where("slug = ?", candidate)
		if excludeID != "" {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return "", fmt.Errorf("no free slug for %q", base)
}
