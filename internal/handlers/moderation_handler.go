package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/dto"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/httpresp"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	ucModeration "github.com/tahoak/park-collective/internal/usecase/moderation"
)

type changeLister interface {
	Execute(ctx context.Context, in ucModeration.ListChangesInput) ([]dto.PendingChangeListDTO, error)
}

type changeReviewer interface {
	Execute(ctx context.Context, in ucModeration.ReviewChangeInput) (*models.PendingChange, error)
}

// ======================================================
// HANDLER
// ======================================================

type ModerationHandler struct {
	list   changeLister
	review changeReviewer
	logger *zap.Logger
}

func NewModerationHandler(
	list changeLister,
	review changeReviewer,
	logger *zap.Logger,
) *ModerationHandler {
	return &ModerationHandler{list: list, review: review, logger: logger}
}

// ======================================================
// DTOs
// ======================================================

type ReviewRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

// ======================================================
// QUEUE
// ======================================================

func (h *ModerationHandler) Queue(c *gin.Context) {
	changes, err := h.list.Execute(c.Request.Context(), ucModeration.ListChangesInput{
		Status:   c.Query("status"),
		EntityID: c.Query("entityId"),
	})
	if err != nil {
		h.fail(c, err, "change_list_failed")
		return
	}
	httpresp.List(c, changes)
}

// ======================================================
// REVIEW
// ======================================================

func (h *ModerationHandler) Review(c *gin.Context) {
	// A malformed id cannot name a change.
	changeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "change_not_found", "Change not found.")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_action", "Action must be APPROVE or REJECT.")
		return
	}

	reviewerID, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "missing_user_context", "Authentication required.")
		return
	}

	ch, err := h.review.Execute(c.Request.Context(), ucModeration.ReviewChangeInput{
		ChangeID:   changeID,
		Action:     req.Action,
		Notes:      req.Notes,
		ReviewerID: reviewerID,
	})
	if err != nil {
		h.fail(c, err, "failed_to_review_change")
		return
	}

	httpresp.OK(c, ch)
}

func (h *ModerationHandler) fail(c *gin.Context, err error, fallback string) {
	if !httperr.IsBusinessError(err) {
		h.logger.Error(fallback, zap.Error(err))
	}
	httperr.FromError(c, err, fallback)
}
