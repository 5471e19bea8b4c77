package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 5 << 20

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage 处理特色图片上传，只接受可解码的图片
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "success": 0})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5MB", "success": 0})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload", "success": 0})
		return
	}
	config, format, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpeg, png, gif or webp images are allowed", "success": 0})
		return
	}
	ext, ok := imageExtensions[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpeg, png, gif or webp images are allowed", "success": 0})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		slog.Error("error creating upload dir", "dir", a.uploadDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory", "success": 0})
		return
	}

	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, name)); err != nil {
		slog.Error("error saving upload", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "success": 0})
		return
	}

	fileURL := path.Join("/", strings.Trim(a.uploadURL, "/"), name)
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "upload succeeded",
		"data": gin.H{
			"url":    fileURL,
			"width":  config.Width,
			"height": config.Height,
		},
	})
}
