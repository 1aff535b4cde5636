package handlers

import (
	"context"
	"errors"
	"io"

	"ncic-pledge/internal/adapters/storage"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaperFormStore persists scanned pledge paper forms
type PaperFormStore interface {
	UploadPaperForm(ctx context.Context, filename string, size int64, body io.Reader, staffID uint) (string, error)
}

// UploadHandler handles paper form uploads
type UploadHandler struct {
	store PaperFormStore
	log   *zap.Logger
}

// NewUploadHandler creates a new upload handler; store may be nil when S3 is not configured
func NewUploadHandler(store PaperFormStore, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

// UploadPaperForm stores the signed paper form and returns its URL
// @Summary Upload paper form
// @Description Upload a scanned pledge form (jpg, png, webp or pdf); use the returned URL as paper_form_image
// @Tags Pledges
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Paper form scan"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /admin/uploadPaperForm [post]
func (h *UploadHandler) UploadPaperForm(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if h.store == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "File storage is not configured")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read uploaded file")
	}
	defer file.Close()

	url, err := h.store.UploadPaperForm(c.UserContext(), header.Filename, header.Size, file, actor.ID)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return response.Error(c, fiber.StatusServiceUnavailable, "File storage is not configured")
		}
		return writeError(c, h.log, err, "Failed to upload paper form")
	}

	return response.Created(c, "Paper form uploaded successfully", fiber.Map{
		"url": url,
	})
}
