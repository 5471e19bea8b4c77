package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!  Again", "hello-world-again"},
		{"My Trip", "my-trip"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Café au lait", "caf-au-lait"},
		{"100% Real", "100-real"},
		{"already-a-slug", "already-a-slug"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestSlugifyOutputShape(t *testing.T) {
	inputs := []string{
		"Hello, World!  Again",
		"UPPER lower 123",
		"tabs\tand\nnewlines",
		"ümlaut & ß",
		"a---b___c",
		"-x-",
	}

	for _, in := range inputs {
		slug := Slugify(in)
		for _, r := range slug {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			require.True(t, ok, "unexpected rune %q in %q", r, slug)
		}
		assert.False(t, strings.HasPrefix(slug, "-"), slug)
		assert.False(t, strings.HasSuffix(slug, "-"), slug)
		assert.NotContains(t, slug, "--")
		assert.Equal(t, slug, Slugify(slug), "slugify is idempotent")
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("my-trip"))
	assert.True(t, IsValidSlug("my-trip-2"))
	assert.False(t, IsValidSlug(""))
	assert.False(t, IsValidSlug("My-Trip"))
	assert.False(t, IsValidSlug("-trip"))
}

func TestUniquePostSlugSkipsExcludedPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	actor := createTestActor(t, gdb, "author@example.com")

	post, err := svc.Create(context.Background(), actor, CreatePostInput{Title: "Same", Content: "body"})
	require.NoError(t, err)

	slug, err := uniquePostSlug(gdb, "same", "")
	require.NoError(t, err)
	assert.Equal(t, "same-2", slug)

	slug, err = uniquePostSlug(gdb, "same", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "same", slug)

	slug, err = uniquePostSlug(gdb, "", "")
	require.NoError(t, err)
	assert.Equal(t, "post", slug)
}
