package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/i18n"
	"github.com/tahoak/park-collective/internal/mail"
	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/validators"
	"github.com/tahoak/park-collective/internal/verification"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, s *models.Subscriber) error
	UpdateLocale(ctx context.Context, id uuid.UUID, locale string) error
	// MarkVerified reports false when the subscriber no longer exists.
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, p verification.Purpose, subject string) (string, error)
	Consume(ctx context.Context, p verification.Purpose, token string) (string, error)
}

// ======================================================
// SUBSCRIBE (double opt-in, step 1)
// ======================================================

type SubscribeInput struct {
	Email  string
	Locale string
}

type Subscribe struct {
	repo      Repository
	tokens    TokenIssuer
	mailer    mail.Mailer
	publicURL string
	logger    *zap.Logger
}

func NewSubscribe(repo Repository, tokens TokenIssuer, mailer mail.Mailer, publicURL string, logger *zap.Logger) *Subscribe {
	return &Subscribe{repo: repo, tokens: tokens, mailer: mailer, publicURL: publicURL, logger: logger}
}

// Execute stores the subscriber unverified and mails a link. An unverified
// address may subscribe again to get a fresh link; the row is kept when
// sending fails so a retry does not duplicate it.
func (uc *Subscribe) Execute(ctx context.Context, in SubscribeInput) (*models.Subscriber, error) {
	email := validators.NormalizeEmail(in.Email)
	if email == "" {
		return nil, httperr.ErrBusiness("invalid_email")
	}
	locale := i18n.DefaultLocale
	if i18n.Supported(in.Locale) {
		locale = in.Locale
	}

	sub, err := uc.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if sub.Verified {
			return nil, httperr.ErrBusiness("already_subscribed")
		}
		if sub.Locale != locale {
			if err := uc.repo.UpdateLocale(ctx, sub.ID, locale); err != nil {
				return nil, fmt.Errorf("update locale: %w", err)
			}
			sub.Locale = locale
		}
	case httperr.IsNotFound(err):
		sub = &models.Subscriber{Email: email, Locale: locale}
		if err := uc.repo.Create(ctx, sub); err != nil {
			if httperr.IsUniqueViolation(err) {
				return nil, httperr.ErrBusiness("already_subscribed")
			}
			return nil, fmt.Errorf("create subscriber: %w", err)
		}
	default:
		return nil, fmt.Errorf("load subscriber: %w", err)
	}

	token, err := uc.tokens.Issue(ctx, verification.PurposeSubscription, sub.ID.String())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	msg, err := mail.VerificationEmail("subscription", locale, email, uc.publicURL+"/api/subscriptions/verify?token="+token)
	if err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}
	if !uc.mailer.Send(msg) {
		return nil, httperr.ErrBusiness("email_failed")
	}
	return sub, nil
}

// ======================================================
// VERIFY (step 2)
// ======================================================

type Verify struct {
	repo   Repository
	tokens TokenIssuer
	now    func() time.Time
}

func NewVerify(repo Repository, tokens TokenIssuer) *Verify {
	return &Verify{repo: repo, tokens: tokens, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *Verify) Execute(ctx context.Context, token string) error {
	subject, err := uc.tokens.Consume(ctx, verification.PurposeSubscription, token)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return httperr.ErrBusiness("invalid_token")
	}

	ok, err := uc.repo.MarkVerified(ctx, id, uc.now())
	if err != nil {
		return fmt.Errorf("verify subscriber: %w", err)
	}
	if !ok {
		return httperr.ErrBusiness("invalid_token")
	}
	return nil
}
