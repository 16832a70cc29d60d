package controller

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/auth"
	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/detection/application/usecase"
)

const maxVideoBytes = 100 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SubmitVideoController handles video uploads only (one controller per endpoint)
type SubmitVideoController struct {
	uc        *usecase.SubmitVideoUseCase
	uploadDir string
}

func NewSubmitVideoController(uc *usecase.SubmitVideoUseCase, uploadDir string) *SubmitVideoController {
	return &SubmitVideoController{uc: uc, uploadDir: uploadDir}
}

// Handle spools the upload to disk and queues it for background submission to
// the detection service. Responds as soon as the job is queued; progress is
// delivered over the bus detection room.
func (h *SubmitVideoController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		busID, ok := busIDParam(c)
		if !ok {
			return
		}
		file, err := c.FormFile("video")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No video file provided"})
			return
		}
		if file.Size > maxVideoBytes {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("File too large. Max size is %dMB", maxVideoBytes>>20)})
			return
		}
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type. Only video files are allowed."})
			return
		}

		if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		safeName := unsafeFilenameChars.ReplaceAllString(filepath.Base(file.Filename), "_")
		dest := filepath.Join(h.uploadDir, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safeName))
		if err := c.SaveUploadedFile(file, dest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
			return
		}

		userID, role := auth.Identity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		err = h.uc.Execute(ctx, usecase.SubmitVideoInput{
			BusID:      busID,
			CallerID:   userID,
			CallerRole: role,
			FilePath:   dest,
			Filename:   safeName,
		})
		if err != nil {
			os.Remove(dest)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"busId": busID, "status": "queued"})
	}
}
