package claim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/audit"
	domain "github.com/tahoak/park-collective/internal/domain/claim"
	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/mail"
	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/verification"
)

// TokenIssuer is satisfied by *verification.Tokens.
type TokenIssuer interface {
	Issue(ctx context.Context, p verification.Purpose, subject string) (string, error)
	Consume(ctx context.Context, p verification.Purpose, token string) (string, error)
}

// ======================================================
// OPEN
// ======================================================

type OpenInput struct {
	EntityID uuid.UUID
	UserID   uuid.UUID
	Message  string
	Locale   string
}

type OpenResult struct {
	Claim *models.EntityClaim `json:"claim"`
	// Verification is "EMAIL" when a link went to the listing's address,
	// otherwise "ADMIN".
	Verification domain.Via `json:"verification"`
}

type Open struct {
	repo      domain.Repository
	tokens    TokenIssuer
	mailer    mail.Mailer
	audit     audit.Recorder
	publicURL string
	logger    *zap.Logger
}

func NewOpen(repo domain.Repository, tokens TokenIssuer, mailer mail.Mailer, audit audit.Recorder, publicURL string, logger *zap.Logger) *Open {
	return &Open{repo: repo, tokens: tokens, mailer: mailer, audit: audit, publicURL: publicURL, logger: logger}
}

func (uc *Open) Execute(ctx context.Context, in OpenInput) (*OpenResult, error) {
	entity, err := uc.repo.GetEntity(ctx, in.EntityID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("entity_not_found")
		}
		return nil, fmt.Errorf("load entity: %w", err)
	}
	if entity.OwnerID != nil && *entity.OwnerID == in.UserID {
		return nil, httperr.ErrBusiness("already_owner")
	}

	if _, err := uc.repo.FindOpenClaim(ctx, in.EntityID, in.UserID); err == nil {
		return nil, httperr.ErrBusiness("claim_already_open")
	} else if !httperr.IsNotFound(err) {
		return nil, fmt.Errorf("load open claim: %w", err)
	}

	c := &models.EntityClaim{
		EntityID: entity.ID,
		UserID:   in.UserID,
		Message:  strings.TrimSpace(in.Message),
		Status:   string(moderation.StatusPending),
	}
	if err := uc.repo.CreateClaim(ctx, c); err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}

	res := &OpenResult{Claim: c, Verification: domain.ViaAdmin}
	if entity.Email != "" && uc.sendLink(ctx, c, entity, in.Locale) {
		res.Verification = domain.ViaEmail
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.UserID,
		Action:    "claim_opened",
		Subject:   "entity_claim",
		SubjectID: &c.ID,
		Metadata:  map[string]any{"entity_id": entity.ID, "verification": res.Verification},
	})
	return res, nil
}

// sendLink falls back to admin review on any failure.
func (uc *Open) sendLink(ctx context.Context, c *models.EntityClaim, e *models.Entity, locale string) bool {
	token, err := uc.tokens.Issue(ctx, verification.PurposeClaim, c.ID.String())
	if err != nil {
		uc.logger.Warn("claim token not issued", zap.String("claim_id", c.ID.String()), zap.Error(err))
		return false
	}

	msg, err := mail.VerificationEmail("claim", locale, e.Email, uc.publicURL+"/api/claims/verify?token="+token)
	if err != nil {
		uc.logger.Error("render claim email", zap.Error(err))
		return false
	}
	return uc.mailer.Send(msg)
}

// ======================================================
// REVIEW
// ======================================================

type ReviewInput struct {
	ClaimID    uuid.UUID
	Action     string
	Notes      string
	ReviewerID *uuid.UUID
	Via        domain.Via
}

// Review settles a claim once. Approval sets the entity owner and grants
// ENTITY_OWNER in the same transaction.
type Review struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewReview(repo domain.Repository, audit audit.Recorder) *Review {
	return &Review{repo: repo, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *Review) Execute(ctx context.Context, in ReviewInput) (*models.EntityClaim, error) {
	action, err := moderation.ParseAction(in.Action)
	if err != nil {
		return nil, err
	}

	var reviewed *models.EntityClaim
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		c, err := tx.GetClaim(ctx, in.ClaimID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("claim_not_found")
			}
			return fmt.Errorf("load claim: %w", err)
		}

		if err := domain.MarkReviewed(c, domain.Decision{
			Action: action, Via: in.Via, ReviewerID: in.ReviewerID, Notes: in.Notes, At: uc.now(),
		}); err != nil {
			return err
		}

		claimed, err := tx.ClaimForReview(ctx, c)
		if err != nil {
			return fmt.Errorf("claim review: %w", err)
		}
		if !claimed {
			return httperr.ErrBusiness("already_processed")
		}

		if action == moderation.Approve {
			if err := tx.SetOwner(ctx, c.EntityID, c.UserID); err != nil {
				if httperr.IsNotFound(err) {
					return httperr.ErrBusiness("entity_not_found")
				}
				return fmt.Errorf("set owner: %w", err)
			}
			if err := tx.GrantRole(ctx, c.UserID, string(directory.RoleEntityOwner)); err != nil {
				return fmt.Errorf("grant role: %w", err)
			}
		}

		reviewed = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.ReviewerID,
		Action:    "claim_" + strings.ToLower(string(action.Outcome())),
		Subject:   "entity_claim",
		SubjectID: &reviewed.ID,
		Metadata:  map[string]any{"entity_id": reviewed.EntityID, "via": in.Via},
	})
	return reviewed, nil
}

// ======================================================
// VERIFY (email link)
// ======================================================

type Verify struct {
	tokens TokenIssuer
	review *Review
}

func NewVerify(tokens TokenIssuer, review *Review) *Verify {
	return &Verify{tokens: tokens, review: review}
}

func (uc *Verify) Execute(ctx context.Context, token string) (*models.EntityClaim, error) {
	subject, err := uc.tokens.Consume(ctx, verification.PurposeClaim, token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_token")
	}
	return uc.review.Execute(ctx, ReviewInput{
		ClaimID: id,
		Action:  string(moderation.Approve),
		Via:     domain.ViaEmail,
	})
}

// ======================================================
// LIST
// ======================================================

type List struct {
	repo domain.Repository
}

func NewList(repo domain.Repository) *List {
	return &List{repo: repo}
}

func (uc *List) Execute(ctx context.Context, status string) ([]models.EntityClaim, error) {
	st, err := moderation.ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	claims, err := uc.repo.ListClaims(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}
