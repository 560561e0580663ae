package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/audit"
	"github.com/tahoak/park-collective/internal/auth"
	"github.com/tahoak/park-collective/internal/config"
	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/geocode"
	"github.com/tahoak/park-collective/internal/handlers"
	infraRepo "github.com/tahoak/park-collective/internal/infra/repository"
	"github.com/tahoak/park-collective/internal/mail"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/storage"
	ucClaim "github.com/tahoak/park-collective/internal/usecase/claim"
	ucModeration "github.com/tahoak/park-collective/internal/usecase/moderation"
	ucSubscription "github.com/tahoak/park-collective/internal/usecase/subscription"
	"github.com/tahoak/park-collective/internal/validators"
	"github.com/tahoak/park-collective/internal/verification"
)

// Deps are the process singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Audit    audit.Recorder
	Tokens   *verification.Tokens
	Store    storage.ObjectStore
	Geocoder geocode.Geocoder
	Mailer   mail.Mailer
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	r.Use(middleware.Locale())

	// ======================================================
	// INFRA
	// ======================================================
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	moderationRepo := infraRepo.NewModerationGormRepository(d.DB)
	claimRepo := infraRepo.NewClaimGormRepository(d.DB)
	subscriberRepo := infraRepo.NewSubscriberGormRepository(d.DB)

	// ======================================================
	// USE CASES — MODERATION
	// ======================================================
	submitChangeUC := ucModeration.NewSubmitChange(moderationRepo, d.Audit)
	reviewChangeUC := ucModeration.NewReviewChange(moderationRepo, d.Audit)
	listChangesUC := ucModeration.NewListChanges(moderationRepo)
	ownerTagUC := ucModeration.NewAssignOwnerTag(moderationRepo, submitChangeUC, d.Audit)

	// ======================================================
	// USE CASES — CLAIMS & SUBSCRIPTIONS
	// ======================================================
	openClaimUC := ucClaim.NewOpen(claimRepo, d.Tokens, d.Mailer, d.Audit, cfg.App.PublicURL, d.Logger)
	reviewClaimUC := ucClaim.NewReview(claimRepo, d.Audit)
	verifyClaimUC := ucClaim.NewVerify(d.Tokens, reviewClaimUC)
	listClaimsUC := ucClaim.NewList(claimRepo)

	subscribeUC := ucSubscription.NewSubscribe(subscriberRepo, d.Tokens, d.Mailer, cfg.App.PublicURL, d.Logger)
	verifySubscriptionUC := ucSubscription.NewVerify(subscriberRepo, d.Tokens)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, jwtService, validators.NewDomainChecker(), d.Logger)
	meHandler := handlers.NewMeHandler(d.DB)
	publicHandler := handlers.NewPublicHandler(d.DB, d.Geocoder, d.Audit, d.Logger)
	changeHandler := handlers.NewChangeHandler(d.DB, submitChangeUC, listChangesUC, ownerTagUC, d.Logger)
	uploadHandler := handlers.NewUploadHandler(d.DB, d.Store, submitChangeUC, d.Logger)
	moderationHandler := handlers.NewModerationHandler(listChangesUC, reviewChangeUC, d.Logger)
	adminHandler := handlers.NewAdminHandler(d.DB, moderationRepo, d.Audit, d.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	claimHandler := handlers.NewClaimHandler(openClaimUC, verifyClaimUC, reviewClaimUC, listClaimsUC, d.Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscribeUC, verifySubscriptionUC, d.Logger)

	api := r.Group("/api")

	// ======================================================
	// PUBLIC
	// ======================================================
	api.GET("/entities", publicHandler.ListEntities)
	// gin wants one wildcard name per segment, so the slug lookup binds :id.
	api.GET("/entities/:id", publicHandler.GetEntity)
	api.GET("/categories", publicHandler.ListCategories)
	api.GET("/tags", publicHandler.ListTags)

	api.POST("/entities", middleware.OptionalAuth(jwtService), publicHandler.SubmitEntity)
	api.POST("/entities/:id/changes", middleware.OptionalAuth(jwtService), changeHandler.Submit)

	api.POST("/subscriptions", subscriptionHandler.Subscribe)
	api.GET("/subscriptions/verify", subscriptionHandler.Verify)
	api.GET("/claims/verify", claimHandler.Verify)

	// ======================================================
	// AUTH
	// ======================================================
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.Auth(jwtService))
	authed.GET("/me", meHandler.GetMe)
	authed.POST("/entities/:id/claims", claimHandler.Create)

	// ======================================================
	// OWNER PORTAL
	// ======================================================
	portal := api.Group("/portal", middleware.Auth(jwtService))
	{
		portal.GET("/entities", changeHandler.MyEntities)
		portal.GET("/changes", changeHandler.MyChanges)
		portal.POST("/entities/:id/images/:slot", uploadHandler.UploadImage)
		portal.POST("/entities/:id/tags", changeHandler.AssignTag)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	admin := api.Group("/admin",
		middleware.Auth(jwtService),
		middleware.RequireRole(string(directory.RoleAdmin)),
	)
	{
		admin.GET("/pending-changes", moderationHandler.Queue)
		admin.PUT("/pending-changes/:id", moderationHandler.Review)

		admin.PATCH("/entities/:id/status", adminHandler.UpdateEntityStatus)
		admin.POST("/entities/:id/tags", adminHandler.AssignTag)
		admin.DELETE("/entities/:id/tags/:tagId", adminHandler.RemoveTag)
		admin.PATCH("/entity-tags/:entityId/:tagId/verify", adminHandler.VerifyTag)
		admin.POST("/tags", adminHandler.CreateTag)

		admin.GET("/claims", claimHandler.AdminList)
		admin.PUT("/claims/:id", claimHandler.AdminReview)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
