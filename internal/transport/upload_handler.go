package transport

import (
	"errors"
	"net/http"

	"threadstory-be/internal/upload"

	"github.com/gin-gonic/gin"
)

type uploadHandler struct {
	uploads *upload.Service
}

func (h *uploadHandler) single(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			WriteError(c, upload.ErrNoFile)
			return
		}
		WriteError(c, errInvalidBody)
		return
	}

	stored, err := h.uploads.Save(c.Request.Context(), fh)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Image uploaded successfully",
		"imagePath": stored.ImagePath,
		"filename":  stored.Filename,
	})
}

func (h *uploadHandler) multiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			WriteError(c, upload.ErrNoFiles)
			return
		}
		WriteError(c, errInvalidBody)
		return
	}

	stored, err := h.uploads.SaveAll(c.Request.Context(), form.File["images"])
	if err != nil {
		WriteError(c, err)
		return
	}

	paths := make([]string, 0, len(stored))
	for _, s := range stored {
		paths = append(paths, s.ImagePath)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Images uploaded successfully",
		"imagePaths": paths,
		"count":      len(paths),
	})
}
