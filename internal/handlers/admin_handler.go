package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/audit"
	"github.com/tahoak/park-collective/internal/domain/directory"
	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/slug"
)

// AdminHandler covers direct admin edits that skip the moderation queue.
type AdminHandler struct {
	db     *gorm.DB
	repo   domain.Repository
	audit  audit.Recorder
	logger *zap.Logger
}

func NewAdminHandler(db *gorm.DB, repo domain.Repository, audit audit.Recorder, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, repo: repo, audit: audit, logger: logger}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTagRequest struct {
	TagID uuid.UUID `json:"tagId" binding:"required"`
}

type CreateTagRequest struct {
	Name             string          `json:"name" binding:"required"`
	NameTranslations json.RawMessage `json:"nameTranslations"`
	Category         string          `json:"category" binding:"required"`
}

// --------------------------------------------------
// Entities
// --------------------------------------------------

func (h *AdminHandler) UpdateEntityStatus(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	status, err := directory.ParseEntityStatus(req.Status)
	if err != nil {
		httperr.FromError(c, err, "invalid_status")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Entity{}).
		Where("id = ?", entityID).
		Update("status", string(status))
	if res.Error != nil {
		h.logger.Error("update entity status", zap.Error(res.Error))
		httperr.Internal(c, "failed_to_update_status", "Something went wrong.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "entity_not_found", "Entity not found.")
		return
	}

	h.record(c, "entity_status_changed", "entity", entityID, map[string]any{"status": status})
	c.JSON(http.StatusOK, gin.H{"id": entityID, "status": status})
}

// --------------------------------------------------
// Entity tags
// --------------------------------------------------

func (h *AdminHandler) AssignTag(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}

	var req AssignTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	if !h.exists(c, entityID, req.TagID) {
		return
	}

	adminID, _ := middleware.UserID(c)
	if err := h.repo.UpsertVerifiedEntityTag(ctx, entityID, req.TagID, &adminID); err != nil {
		h.logger.Error("assign tag", zap.Error(err))
		httperr.Internal(c, "failed_to_assign_tag", "Something went wrong.")
		return
	}

	h.record(c, "tag_assigned", "entity", entityID, map[string]any{"tag_id": req.TagID})
	c.JSON(http.StatusCreated, gin.H{"entity_id": entityID, "tag_id": req.TagID, "verified": true})
}

// RemoveTag is idempotent.
func (h *AdminHandler) RemoveTag(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}
	tagID, ok := uuidParam(c, "tagId", "invalid_tag_id")
	if !ok {
		return
	}

	if err := h.repo.DeleteEntityTag(c.Request.Context(), entityID, tagID); err != nil {
		h.logger.Error("remove tag", zap.Error(err))
		httperr.Internal(c, "failed_to_remove_tag", "Something went wrong.")
		return
	}

	h.record(c, "tag_removed", "entity", entityID, map[string]any{"tag_id": tagID})
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) VerifyTag(c *gin.Context) {
	entityID, ok := uuidParam(c, "entityId", "invalid_entity_id")
	if !ok {
		return
	}
	tagID, ok := uuidParam(c, "tagId", "invalid_tag_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	et, err := h.repo.GetEntityTag(ctx, entityID, tagID)
	if err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "entity_tag_not_found", "The tag is not assigned to this entity.")
			return
		}
		httperr.Internal(c, "failed_to_verify_tag", "Something went wrong.")
		return
	}

	if err := h.repo.UpsertVerifiedEntityTag(ctx, entityID, tagID, et.CreatedBy); err != nil {
		h.logger.Error("verify tag", zap.Error(err))
		httperr.Internal(c, "failed_to_verify_tag", "Something went wrong.")
		return
	}

	h.record(c, "tag_verified", "entity", entityID, map[string]any{"tag_id": tagID})
	c.JSON(http.StatusOK, gin.H{"entity_id": entityID, "tag_id": tagID, "verified": true})
}

// --------------------------------------------------
// Tags
// --------------------------------------------------

func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	category, err := directory.ParseTagCategory(req.Category)
	if err != nil {
		httperr.FromError(c, err, "invalid_tag_category")
		return
	}

	var translations datatypes.JSON
	if len(req.NameTranslations) > 0 && string(req.NameTranslations) != "null" {
		var m map[string]any
		if err := json.Unmarshal(req.NameTranslations, &m); err != nil {
			httperr.BadRequest(c, "invalid_payload", "nameTranslations must be an object.")
			return
		}
		translations = datatypes.JSON(req.NameTranslations)
	}

	name := strings.TrimSpace(req.Name)
	tag := models.Tag{
		Name:             name,
		NameTranslations: translations,
		Category:         string(category),
		Slug:             slug.Make(name),
	}
	if tag.Slug == "" {
		httperr.BadRequest(c, "invalid_request", "Name must contain letters or digits.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&tag).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "slug_already_exists", "A tag with this name already exists.")
			return
		}
		h.logger.Error("create tag", zap.Error(err))
		httperr.Internal(c, "failed_to_create_tag", "Something went wrong.")
		return
	}

	h.record(c, "tag_created", "tag", tag.ID, map[string]any{"slug": tag.Slug})
	c.JSON(http.StatusCreated, tag)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (h *AdminHandler) exists(c *gin.Context, entityID, tagID uuid.UUID) bool {
	ctx := c.Request.Context()
	if _, err := h.repo.GetEntity(ctx, entityID); err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "entity_not_found", "Entity not found.")
			return false
		}
		httperr.Internal(c, "failed_to_load_entity", "Something went wrong.")
		return false
	}
	if _, err := h.repo.GetTag(ctx, tagID); err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "tag_not_found", "Tag not found.")
			return false
		}
		httperr.Internal(c, "failed_to_load_tag", "Something went wrong.")
		return false
	}
	return true
}

func (h *AdminHandler) record(c *gin.Context, action, subject string, id uuid.UUID, meta map[string]any) {
	ev := audit.Event{Action: action, Subject: subject, SubjectID: &id, Metadata: meta}
	if adminID, ok := middleware.UserID(c); ok {
		ev.ActorID = &adminID
	}
	h.audit.Dispatch(ev)
}
