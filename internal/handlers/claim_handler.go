package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainClaim "github.com/tahoak/park-collective/internal/domain/claim"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/httpresp"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	ucClaim "github.com/tahoak/park-collective/internal/usecase/claim"
)

type claimOpener interface {
	Execute(ctx context.Context, in ucClaim.OpenInput) (*ucClaim.OpenResult, error)
}

type claimVerifier interface {
	Execute(ctx context.Context, token string) (*models.EntityClaim, error)
}

type claimReviewer interface {
	Execute(ctx context.Context, in ucClaim.ReviewInput) (*models.EntityClaim, error)
}

type claimLister interface {
	Execute(ctx context.Context, status string) ([]models.EntityClaim, error)
}

type ClaimHandler struct {
	open   claimOpener
	verify claimVerifier
	review claimReviewer
	list   claimLister
	logger *zap.Logger
}

func NewClaimHandler(open claimOpener, verify claimVerifier, review claimReviewer, list claimLister, logger *zap.Logger) *ClaimHandler {
	return &ClaimHandler{open: open, verify: verify, review: review, list: list, logger: logger}
}

type OpenClaimRequest struct {
	Message string `json:"message"`
}

func (h *ClaimHandler) Create(c *gin.Context) {
	entityID, ok := uuidParam(c, "id", "invalid_entity_id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req OpenClaimRequest
	// body is optional
	_ = c.ShouldBindJSON(&req)

	res, err := h.open.Execute(c.Request.Context(), ucClaim.OpenInput{
		EntityID: entityID,
		UserID:   userID,
		Message:  req.Message,
		Locale:   middleware.LocaleFrom(c),
	})
	if err != nil {
		h.fail(c, err, "failed_to_open_claim")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ClaimHandler) Verify(c *gin.Context) {
	claim, err := h.verify.Execute(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.fail(c, err, "failed_to_verify_claim")
		return
	}
	httpresp.OK(c, claim)
}

// ======================================================
// ADMIN
// ======================================================

func (h *ClaimHandler) AdminList(c *gin.Context) {
	claims, err := h.list.Execute(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, err, "claim_list_failed")
		return
	}
	httpresp.List(c, claims)
}

type ReviewClaimRequest struct {
	Action string `json:"action" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *ClaimHandler) AdminReview(c *gin.Context) {
	claimID, ok := uuidParam(c, "id", "invalid_claim_id")
	if !ok {
		return
	}
	reviewerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ReviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_action", "Action must be APPROVE or REJECT.")
		return
	}

	claim, err := h.review.Execute(c.Request.Context(), ucClaim.ReviewInput{
		ClaimID:    claimID,
		Action:     req.Action,
		Notes:      req.Notes,
		ReviewerID: &reviewerID,
		Via:        domainClaim.ViaAdmin,
	})
	if err != nil {
		h.fail(c, err, "failed_to_review_claim")
		return
	}
	httpresp.OK(c, claim)
}

func (h *ClaimHandler) fail(c *gin.Context, err error, fallback string) {
	if !httperr.IsBusinessError(err) {
		h.logger.Error(fallback, zap.Error(err))
	}
	httperr.FromError(c, err, fallback)
}
