package handler

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/helpinghand/internal/service"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const maxUploadBytes = 10 << 20

var uploadFolders = map[string]struct{}{
	"posts":   {},
	"avatars": {},
	"cards":   {},
}

// UploadImage stores an uploaded image in the object store and returns its
// public URL.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image in request")
		return
	}

	folder := c.DefaultQuery("folder", "posts")
	if _, ok := uploadFolders[folder]; !ok {
		respondError(c, http.StatusBadRequest, "unknown upload folder")
		return
	}

	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "image exceeds the 10MB limit")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "failed to read image data")
		return
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is not a decodable image")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".png"
	}

	key := fmt.Sprintf("%s/%s/%s%s", service.AssetKeyMarker, folder, uuid.New().String(), ext)
	url, err := a.store.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		respondError(c, http.StatusBadGateway, "failed to store image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":    url,
		"width":  cfg.Width,
		"height": cfg.Height,
	})
}
