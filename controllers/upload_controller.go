package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/middleware"
	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/services"
)

const maxUploadBytes = 10 << 20 // 10 MB

// allowedUploadTypes maps accepted MIME types to the extension stored
// with the file
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

const thumbnailWidth = 480

// UploadController pushes files to the external storage provider and,
// for images, a downscaled thumbnail next to the original
type UploadController struct {
	storage  *services.StorageService
	pipeline *middleware.Pipeline
}

// NewUploadController creates a new upload controller
func NewUploadController(storage *services.StorageService, pipeline *middleware.Pipeline) *UploadController {
	return &UploadController{storage: storage, pipeline: pipeline}
}

// UploadResponse is the payload returned on a successful upload
type UploadResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	FileID       string `json:"fileId"`
	ContentType  string `json:"contentType"`
	Size         int    `json:"size"`
}

// UploadFile accepts a multipart "file" part, verifies its sniffed MIME
// type against the allow-list and forwards it to storage
func (c *UploadController) UploadFile(ctx echo.Context) error {
	uid := middleware.GetFirebaseUID(ctx)
	if uid == "" {
		return unauthorized(ctx)
	}

	if !c.storage.Configured() {
		return ctx.JSON(http.StatusServiceUnavailable, models.Response{
			Status:  http.StatusServiceUnavailable,
			Message: "File storage is not configured",
		})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"missing file field"},
		})
	}
	if fileHeader.Size > maxUploadBytes {
		return ctx.JSON(http.StatusRequestEntityTooLarge, models.Response{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "File exceeds the 10MB limit",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return internalError(ctx, err, "Failed to read upload")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return internalError(ctx, err, "Failed to read upload")
	}
	if len(data) > maxUploadBytes {
		return ctx.JSON(http.StatusRequestEntityTooLarge, models.Response{
			Status:  http.StatusRequestEntityTooLarge,
			Message: "File exceeds the 10MB limit",
		})
	}

	// The client-declared Content-Type is not trusted.
	contentType := sniffContentType(data, fileHeader.Filename)
	ext, allowed := allowedUploadTypes[contentType]
	if !allowed {
		return ctx.JSON(http.StatusUnsupportedMediaType, models.Response{
			Status:  http.StatusUnsupportedMediaType,
			Message: fmt.Sprintf("File type %s is not allowed", contentType),
		})
	}

	reqCtx := ctx.Request().Context()
	name := uuid.New().String() + ext

	result, err := c.storage.Upload(reqCtx, data, name, contentType)
	if err != nil {
		return internalError(ctx, err, "Failed to store file")
	}

	response := UploadResponse{
		URL:         result.URL,
		FileID:      result.FileID,
		ContentType: contentType,
		Size:        len(data),
	}

	if thumb := c.makeThumbnail(ctx, data, contentType); thumb != nil {
		thumbResult, err := c.storage.Upload(reqCtx, thumb, "thumb_"+strings.TrimSuffix(name, ext)+".jpg", "image/jpeg")
		if err != nil {
			ctx.Logger().Warnf("thumbnail upload failed: %v", err)
		} else {
			response.ThumbnailURL = thumbResult.URL
		}
	}

	c.pipeline.Audit(ctx, middleware.AuditSpec{
		Type:        models.EventUpload,
		Severity:    models.SeverityLow,
		Description: "file uploaded",
	}, map[string]interface{}{
		"fileId":      response.FileID,
		"contentType": contentType,
		"size":        len(data),
	})

	return ctx.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "File uploaded",
		Data:    response,
	})
}

// makeThumbnail renders a width-bounded JPEG for image uploads. Formats
// the decoder cannot handle (webp in particular) are skipped silently.
func (c *UploadController) makeThumbnail(ctx echo.Context, data []byte, contentType string) []byte {
	if !strings.HasPrefix(contentType, "image/") {
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		ctx.Logger().Debugf("thumbnail decode skipped: %v", err)
		return nil
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		ctx.Logger().Warnf("thumbnail encode failed: %v", err)
		return nil
	}
	return buf.Bytes()
}

// sniffContentType detects the MIME type from content, falling back to
// the extension for PDFs that sniff as octet-stream
func sniffContentType(data []byte, filename string) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	if contentType == "application/octet-stream" && strings.EqualFold(filepath.Ext(filename), ".pdf") {
		contentType = "application/pdf"
	}
	return contentType
}
