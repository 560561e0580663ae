package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/imageproc"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/storage"
	ucModeration "github.com/tahoak/park-collective/internal/usecase/moderation"
)

// UploadHandler stores entity images and queues them for moderation.
type UploadHandler struct {
	db     *gorm.DB
	store  storage.ObjectStore
	submit changeSubmitter
	logger *zap.Logger
}

func NewUploadHandler(db *gorm.DB, store storage.ObjectStore, submit changeSubmitter, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{db: db, store: store, submit: submit, logger: logger}
}

// UploadImage replaces one slot. The object is public once stored, but the
// entity only points at it after an admin approves the UPDATE_IMAGE change.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}
	slot := c.Param("slot")
	if !directory.IsImageSlot(slot) {
		httperr.BadRequest(c, "invalid_image_slot", "Unknown image slot.")
		return
	}

	e, ok := loadManagedEntity(c, h.db, entityID)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Attach the image as 'file'.")
		return
	}
	if fh.Size > imageproc.MaxUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Image exceeds the size limit.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Attach the image as 'file'.")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, imageproc.MaxUploadBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Unsupported or corrupt image.")
		return
	}

	img, err := imageproc.Normalize(raw)
	switch {
	case errors.Is(err, imageproc.ErrTooLarge):
		httperr.BadRequest(c, "image_too_large", "Image exceeds the size limit.")
		return
	case err != nil:
		httperr.BadRequest(c, "invalid_image", "Unsupported or corrupt image.")
		return
	}

	key := storage.EntityImageKey(e.ID.String(), slot+"-"+uuid.NewString()+".webp")
	url, err := h.store.Put(c.Request.Context(), key, imageproc.ContentType, img)
	if err != nil {
		h.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		httperr.Write(c, http.StatusBadGateway, "upload_failed", "The image could not be stored.")
		return
	}

	images := e.ImageSlots()
	images[slot] = url
	newValue, err := json.Marshal(images)
	if err != nil {
		httperr.Internal(c, "failed_to_submit_change", "Something went wrong.")
		return
	}

	userID, _ := middleware.UserID(c)
	ch, err := h.submit.Execute(c.Request.Context(), ucModeration.SubmitChangeInput{
		EntityID:    e.ID,
		ChangeType:  string(moderation.UpdateImage),
		FieldName:   slot,
		NewValue:    newValue,
		SubmittedBy: &userID,
	})
	if err != nil {
		if !httperr.IsBusinessError(err) {
			h.logger.Error("failed_to_submit_change", zap.Error(err))
		}
		httperr.FromError(c, err, "failed_to_submit_change")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"url": url, "pending_change": ch})
}
