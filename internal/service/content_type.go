package service

import (
	"strings"

	"github.com/unheard/internal/db"
)

const (
	ContentTypeBlog       = "blog"
	ContentTypeGuide      = "guide"
	ContentTypeComparison = "comparison"
)

// ContentTypeInfo 描述内容类型在前台的展示文案
type ContentTypeInfo struct {
	Type         string
	Label        string
	SectionTitle string
}

var contentTypes = []ContentTypeInfo{
	{Type: ContentTypeBlog, Label: "Blog Post", SectionTitle: "Expressing Hidden Thoughts"},
	{Type: ContentTypeGuide, Label: "Guide", SectionTitle: "Decoding Emotional Signals"},
	{Type: ContentTypeComparison, Label: "Comparison", SectionTitle: "Navigating Silent Conversations"},
}

// ContentTypes returns the closed set of known content types in display order.
func ContentTypes() []ContentTypeInfo {
	out := make([]ContentTypeInfo, len(contentTypes))
	copy(out, contentTypes)
	return out
}

// LookupContentType returns the display info for a known content type.
func LookupContentType(contentType string) (ContentTypeInfo, bool) {
	for _, info := range contentTypes {
		if info.Type == contentType {
			return info, true
		}
	}
	return ContentTypeInfo{}, false
}

// ContentTypeLabel returns the short label, or "" for unrecognised types.
func ContentTypeLabel(contentType string) string {
	info, _ := LookupContentType(contentType)
	return info.Label
}

// normalizeContentType trims the value and defaults blanks to blog.
// Unknown types are passed through unchanged.
func normalizeContentType(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ContentTypeBlog
	}
	return trimmed
}

// PostGroup is one content type section of the public listing.
type PostGroup struct {
	ContentType string
	Title       string
	Posts       []db.Post
}

// PostGroups keeps groups in order of first appearance.
type PostGroups []PostGroup

// Get returns the posts grouped under contentType.
func (g PostGroups) Get(contentType string) []db.Post {
	for _, group := range g {
		if group.ContentType == contentType {
			return group.Posts
		}
	}
	return nil
}

// GroupByContentType partitions posts by content type, keeping the input order
// inside each group. Groups appear in the order their first post appears.
func GroupByContentType(posts []db.Post) PostGroups {
	groups := PostGroups{}
	index := make(map[string]int)

	for _, post := range posts {
		i, ok := index[post.ContentType]
		if !ok {
			title := post.ContentType
			if info, known := LookupContentType(post.ContentType); known {
				title = info.SectionTitle
			}
			groups = append(groups, PostGroup{ContentType: post.ContentType, Title: title})
			i = len(groups) - 1
			index[post.ContentType] = i
		}
		groups[i].Posts = append(groups[i].Posts, post)
	}

	return groups
}
