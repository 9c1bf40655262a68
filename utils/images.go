package utils

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// imageExts maps accepted data-URI subtypes to stored file extensions.
// The subtype never reaches the filesystem directly.
var imageExts = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
}

// SaveBase64Image decodes a "data:image/<subtype>;base64,<data>" URI and
// writes it under dir/subdir. It returns the stored path relative to dir.
func SaveBase64Image(dataURI, dir, subdir string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", fmt.Errorf("invalid base64 image")
	}

	parts := strings.SplitN(dataURI, ";base64,", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid base64 image")
	}

	subtype := strings.TrimPrefix(parts[0], "data:image/")
	ext, ok := imageExts[strings.ToLower(subtype)]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", subtype)
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid base64 image: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, subdir), 0755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(dir, subdir, filename), raw, 0644); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
