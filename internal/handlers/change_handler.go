package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/dto"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/httpresp"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	ucModeration "github.com/tahoak/park-collective/internal/usecase/moderation"
)

type changeSubmitter interface {
	Execute(ctx context.Context, in ucModeration.SubmitChangeInput) (*models.PendingChange, error)
}

// ChangeHandler serves change submission and the owner portal.
type ChangeHandler struct {
	db       *gorm.DB
	submit   changeSubmitter
	list     changeLister
	ownerTag *ucModeration.AssignOwnerTag
	logger   *zap.Logger
}

func NewChangeHandler(
	db *gorm.DB,
	submit changeSubmitter,
	list changeLister,
	ownerTag *ucModeration.AssignOwnerTag,
	logger *zap.Logger,
) *ChangeHandler {
	return &ChangeHandler{db: db, submit: submit, list: list, ownerTag: ownerTag, logger: logger}
}

type SubmitChangeRequest struct {
	ChangeType     string          `json:"changeType" binding:"required"`
	FieldName      string          `json:"fieldName"`
	NewValue       json.RawMessage `json:"newValue" binding:"required"`
	SubmitterEmail string          `json:"submitterEmail"`
}

// Submit accepts changes from owners and anonymous neighbors alike.
func (h *ChangeHandler) Submit(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}

	var req SubmitChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucModeration.SubmitChangeInput{
		EntityID:       entityID,
		ChangeType:     req.ChangeType,
		FieldName:      req.FieldName,
		NewValue:       req.NewValue,
		SubmitterEmail: req.SubmitterEmail,
	}
	if userID, ok := middleware.UserID(c); ok {
		in.SubmittedBy = &userID
	}

	ch, err := h.submit.Execute(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "failed_to_submit_change")
		return
	}

	c.JSON(http.StatusCreated, ch)
}

// ======================================================
// PORTAL
// ======================================================

func (h *ChangeHandler) MyEntities(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var entities []models.Entity
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Tags.Tag").
		Where("owner_id = ?", userID).
		Order("name ASC").
		Find(&entities).Error; err != nil {
		httperr.Internal(c, "entity_list_failed", "Something went wrong.")
		return
	}

	locale := middleware.LocaleFrom(c)
	out := make([]dto.EntityDTO, 0, len(entities))
	for i := range entities {
		out = append(out, dto.Entity(&entities[i], locale))
	}
	httpresp.List(c, out)
}

func (h *ChangeHandler) MyChanges(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	changes, err := h.list.Execute(c.Request.Context(), ucModeration.ListChangesInput{
		Status:      c.DefaultQuery("status", "ALL"),
		EntityID:    c.Query("entityId"),
		SubmittedBy: &userID,
	})
	if err != nil {
		h.fail(c, err, "change_list_failed")
		return
	}
	httpresp.List(c, changes)
}

type OwnerTagRequest struct {
	TagID uuid.UUID `json:"tagId" binding:"required"`
}

// AssignTag lets an owner tag their listing; friendliness tags are queued.
func (h *ChangeHandler) AssignTag(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}
	e, ok := loadManagedEntity(c, h.db, entityID)
	if !ok {
		return
	}

	var req OwnerTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	userID, _ := middleware.UserID(c)
	res, err := h.ownerTag.Execute(c.Request.Context(), ucModeration.OwnerTagInput{
		EntityID: e.ID, TagID: req.TagID, OwnerID: userID,
	})
	if err != nil {
		h.fail(c, err, "failed_to_assign_tag")
		return
	}

	status := http.StatusCreated
	if res.Change != nil {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}

func (h *ChangeHandler) fail(c *gin.Context, err error, fallback string) {
	if !httperr.IsBusinessError(err) {
		h.logger.Error(fallback, zap.Error(err))
	}
	httperr.FromError(c, err, fallback)
}
