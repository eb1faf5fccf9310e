package upload

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytnews/backend/pkg/response"
	"github.com/ytnews/backend/pkg/storage"
)

// maxFilesPerRequest caps the multi-upload endpoint.
const maxFilesPerRequest = 10

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedExtension reports whether the file's extension is an accepted image
// type. Matching is case-insensitive.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// UploadedFile is the response entry for one stored image.
type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Handler handles image upload endpoints.
type Handler struct {
	store   storage.Store
	maxSize int64
	logger  *zap.Logger
}

// NewHandler creates an upload handler. maxSize is the per-file byte cap.
func NewHandler(store storage.Store, maxSize int64, logger *zap.Logger) *Handler {
	return &Handler{store: store, maxSize: maxSize, logger: logger}
}

func (h *Handler) saveOne(c *gin.Context, fh *multipart.FileHeader) (*UploadedFile, error) {
	if !AllowedExtension(fh.Filename) {
		return nil, fmt.Errorf("file type not allowed: %s", filepath.Ext(fh.Filename))
	}
	if fh.Size > h.maxSize {
		return nil, fmt.Errorf("file too large: max %d bytes", h.maxSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	url, err := h.store.Save(c.Request.Context(), name, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &UploadedFile{Filename: name, URL: url}, nil
}

// Image handles POST /upload/image (moderator+).
func (h *Handler) Image(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	uploaded, err := h.saveOne(c, fh)
	if err != nil {
		h.logger.Warn("image upload rejected", zap.String("filename", fh.Filename), zap.Error(err))
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, uploaded)
}

// Images handles POST /upload/images (moderator+). Up to ten files per
// request; the whole batch is rejected if any file fails validation.
func (h *Handler) Images(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "at least one file is required")
		return
	}
	if len(files) > maxFilesPerRequest {
		response.BadRequest(c, fmt.Sprintf("at most %d files per request", maxFilesPerRequest))
		return
	}
	for _, fh := range files {
		if !AllowedExtension(fh.Filename) {
			response.BadRequest(c, "file type not allowed: "+filepath.Ext(fh.Filename))
			return
		}
		if fh.Size > h.maxSize {
			response.BadRequest(c, fmt.Sprintf("file too large: max %d bytes", h.maxSize))
			return
		}
	}

	var uploaded []UploadedFile
	for _, fh := range files {
		u, err := h.saveOne(c, fh)
		if err != nil {
			h.logger.Error("image upload failed", zap.String("filename", fh.Filename), zap.Error(err))
			response.Internal(c, "failed to store uploads")
			return
		}
		uploaded = append(uploaded, *u)
	}
	response.Created(c, uploaded)
}
