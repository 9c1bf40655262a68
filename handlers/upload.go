package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	MediaDir string
}

func NewUploadHandler(mediaDir string) *UploadHandler {
	if err := os.MkdirAll(filepath.Join(mediaDir, "uploads"), 0755); err != nil {
		panic(fmt.Sprintf("Failed to create media directory: %v", err))
	}

	return &UploadHandler{MediaDir: mediaDir}
}

// UploadImage accepts a multipart image and stores it under the media dir,
// returning the URL to reference from recipe or avatar payloads.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "No image file provided"})
		return
	}
	defer file.Close()

	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "Failed to read file"})
		return
	}

	fileType := http.DetectContentType(buffer)
	if fileType != "image/jpeg" && fileType != "image/png" && fileType != "image/gif" {
		c.JSON(http.StatusBadRequest, gin.H{"image": "Only JPEG, PNG, and GIF images are allowed"})
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process file"})
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		switch fileType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		}
	}

	filename := uuid.New().String() + ext
	storedPath := filepath.Join(h.MediaDir, "uploads", filename)

	out, err := os.Create(storedPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save file"})
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       mediaURL("uploads/" + filename),
		"filename":  filename,
		"file_size": header.Size,
		"mime_type": fileType,
	})
}
