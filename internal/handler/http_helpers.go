package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// optionalPostForm returns nil when the form did not carry key at all.
func optionalPostForm(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}

// nonEmptyPostForm treats an empty field the same as a missing one.
func nonEmptyPostForm(c *gin.Context, key string) *string {
	value := c.PostForm(key)
	if value == "" {
		return nil
	}
	return &value
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}
