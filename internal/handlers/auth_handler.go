package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/auth"
	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/i18n"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/validators"
)

type AuthHandler struct {
	db      *gorm.DB
	jwt     *auth.JWTService
	domains *validators.DomainChecker
	logger  *zap.Logger
}

func NewAuthHandler(db *gorm.DB, jwt *auth.JWTService, domains *validators.DomainChecker, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, jwt: jwt, domains: domains, logger: logger}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email == "" {
		httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
		return
	}
	if h.domains != nil && !h.domains.Valid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Something went wrong.")
		return
	}

	locale := i18n.DefaultLocale
	if i18n.Supported(req.Locale) {
		locale = strings.ToLower(req.Locale)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Locale:       locale,
		Roles:        []models.UserRole{{Role: string(directory.RoleUser)}},
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_registered", "An account with this email already exists.")
			return
		}
		h.logger.Error("create user", zap.Error(err))
		httperr.Internal(c, "failed_to_create_user", "Something went wrong.")
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		h.logger.Error("load user", zap.Error(err))
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.jwt.Generate(user.ID, user.RoleNames())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Something went wrong.")
		return
	}

	c.JSON(status, gin.H{
		"user":  userView(user),
		"token": token,
	})
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"locale": u.Locale,
		"roles":  u.RoleNames(),
	}
}

// --------- Me ---------

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "user_not_in_context", "Authentication required.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Roles").
		First(&user, "id = ?", userID).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_load_user", "Something went wrong.")
		return
	}

	var owned []models.Entity
	h.db.WithContext(c.Request.Context()).
		Select("id", "name", "slug", "status").
		Where("owner_id = ?", userID).
		Order("name ASC").
		Find(&owned)

	entities := make([]gin.H, 0, len(owned))
	for _, e := range owned {
		entities = append(entities, gin.H{"id": e.ID, "name": e.Name, "slug": e.Slug, "status": e.Status})
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"entities": entities,
	})
}
