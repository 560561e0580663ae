package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/audit"
	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/dto"
	"github.com/tahoak/park-collective/internal/geocode"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/httpresp"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/search"
	"github.com/tahoak/park-collective/internal/slug"
	"github.com/tahoak/park-collective/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db       *gorm.DB
	geocoder geocode.Geocoder
	audit    audit.Recorder
	logger   *zap.Logger
}

func NewPublicHandler(db *gorm.DB, geocoder geocode.Geocoder, audit audit.Recorder, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{db: db, geocoder: geocoder, audit: audit, logger: logger}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type SubmitEntityRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	EntityType     string     `json:"entityType" binding:"required"`
	CategoryID     *uuid.UUID `json:"categoryId"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Zip            string     `json:"zip"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Website        string     `json:"website"`
	SubmitterEmail string     `json:"submitterEmail"`
}

////////////////////////////////////////////////////////
// ENTITIES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListEntities(c *gin.Context) {
	locale := middleware.LocaleFrom(c)
	page := httpresp.ParsePage(c, 24, 100)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Entity{}).
		Where("entities.status = ?", string(directory.EntityActive)).
		Scopes(search.Entities(c.Query("q")))

	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("entities.category_id IN (SELECT id FROM categories WHERE slug = ?)", cat)
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		if _, err := directory.ParseEntityType(t); err != nil {
			httperr.FromError(c, err, "invalid_entity_type")
			return
		}
		q = q.Where("entities.entity_type = ?", t)
	}
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		q = q.Where(`entities.id IN (
			SELECT et.entity_id FROM entity_tags et
			JOIN tags t ON t.id = et.tag_id
			WHERE t.slug = ? AND et.verified = true)`, tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		h.logger.Error("count entities", zap.Error(err))
		httperr.Internal(c, "entity_count_failed", "Something went wrong.")
		return
	}

	var entities []models.Entity
	if err := q.
		Preload("Category").
		Preload("Tags", "verified = ?", true).
		Preload("Tags.Tag").
		Order("entities.name ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&entities).Error; err != nil {
		h.logger.Error("list entities", zap.Error(err))
		httperr.Internal(c, "entity_list_failed", "Something went wrong.")
		return
	}

	out := make([]dto.EntityDTO, 0, len(entities))
	for i := range entities {
		out = append(out, dto.Entity(&entities[i], locale))
	}
	httpresp.Paged(c, page, total, out)
}

func (h *PublicHandler) GetEntity(c *gin.Context) {
	// the route wildcard is :id, its value is the slug
	var e models.Entity
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Tags.Tag").
		Where("slug = ? AND status = ?", c.Param("id"), string(directory.EntityActive)).
		First(&e).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "entity_not_found", "Entity not found.")
			return
		}
		httperr.Internal(c, "failed_to_load_entity", "Something went wrong.")
		return
	}

	httpresp.OK(c, dto.Entity(&e, middleware.LocaleFrom(c)))
}

// SubmitEntity records a neighbor-suggested listing; it stays PENDING until
// an admin activates it.
func (h *PublicHandler) SubmitEntity(c *gin.Context) {
	var req SubmitEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, "invalid_request", "Name is required.")
		return
	}
	if _, err := directory.ParseEntityType(req.EntityType); err != nil {
		httperr.FromError(c, err, "invalid_entity_type")
		return
	}

	createdBy, authed := middleware.UserID(c)
	if !authed && validators.NormalizeEmail(req.SubmitterEmail) == "" {
		httperr.BadRequest(c, "submitter_required", "Anonymous submissions need a contact email.")
		return
	}

	ctx := c.Request.Context()
	s, err := slug.Unique(slug.Make(name), func(candidate string) (bool, error) {
		var n int64
		err := h.db.WithContext(ctx).Model(&models.Entity{}).Where("slug = ?", candidate).Count(&n).Error
		return n > 0, err
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_entity", "Something went wrong.")
		return
	}

	e := models.Entity{
		Slug:        s,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		EntityType:  req.EntityType,
		Status:      string(directory.EntityPending),
		CategoryID:  req.CategoryID,
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		Zip:         strings.TrimSpace(req.Zip),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       validators.NormalizeEmail(req.Email),
		Website:     strings.TrimSpace(req.Website),
	}
	if authed {
		e.CreatedBy = &createdBy
	}

	if p := h.geocoder.Geocode(ctx, geocode.FullAddress(e.Address, e.City, e.State, e.Zip)); p != nil {
		e.Latitude, e.Longitude = &p.Latitude, &p.Longitude
	}

	if err := h.db.WithContext(ctx).Create(&e).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "slug_already_exists", "Slug already in use.")
			return
		}
		h.logger.Error("create entity", zap.Error(err))
		httperr.Internal(c, "failed_to_create_entity", "Something went wrong.")
		return
	}

	var actor *uuid.UUID
	if authed {
		actor = &createdBy
	}
	h.audit.Dispatch(audit.Event{
		ActorID:   actor,
		Action:    "entity_submitted",
		Subject:   "entity",
		SubjectID: &e.ID,
		Metadata:  map[string]any{"slug": e.Slug, "submitter_email": validators.NormalizeEmail(req.SubmitterEmail)},
	})

	c.JSON(http.StatusCreated, dto.Entity(&e, middleware.LocaleFrom(c)))
}

////////////////////////////////////////////////////////
// CATEGORIES / TAGS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListCategories(c *gin.Context) {
	var cats []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Order("sort_order ASC, name ASC").
		Find(&cats).Error; err != nil {
		httperr.Internal(c, "category_list_failed", "Something went wrong.")
		return
	}

	locale := middleware.LocaleFrom(c)
	out := make([]dto.CategoryDTO, 0, len(cats))
	for i := range cats {
		out = append(out, dto.Category(&cats[i], locale))
	}
	httpresp.List(c, out)
}

func (h *PublicHandler) ListTags(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Tag{})

	if cat := c.Query("category"); cat != "" {
		if _, err := directory.ParseTagCategory(cat); err != nil {
			httperr.FromError(c, err, "invalid_tag_category")
			return
		}
		q = q.Where("category = ?", cat)
	}

	var tags []models.Tag
	if err := q.Order("name ASC").Find(&tags).Error; err != nil {
		httperr.Internal(c, "tag_list_failed", "Something went wrong.")
		return
	}

	// search runs over the resolved name so Spanish queries match Spanish labels.
	locale := middleware.LocaleFrom(c)
	needle := strings.ToLower(strings.TrimSpace(c.Query("search")))
	out := make([]dto.TagDTO, 0, len(tags))
	for i := range tags {
		t := dto.Tag(&tags[i], locale)
		if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) && !strings.Contains(t.Slug, needle) {
			continue
		}
		out = append(out, t)
	}
	httpresp.List(c, out)
}
