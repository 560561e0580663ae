package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/middleware"
	"github.com/tahoak/park-collective/internal/models"
)

// uuidParam parses a path parameter, writing a 400 on failure.
func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, code, "Invalid identifier.")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user id. Routes using it sit behind
// middleware.Auth, so a missing id means a wiring bug; it still answers 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "missing_user_context", "Authentication required.")
	}
	return id, ok
}

// loadManagedEntity loads an entity the caller owns, or any entity for admins.
func loadManagedEntity(c *gin.Context, db *gorm.DB, entityID uuid.UUID) (*models.Entity, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	var e models.Entity
	if err := db.WithContext(c.Request.Context()).First(&e, "id = ?", entityID).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "entity_not_found", "Entity not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_load_entity", "Something went wrong.")
		return nil, false
	}

	if middleware.HasRole(c, string(directory.RoleAdmin)) {
		return &e, true
	}
	if e.OwnerID == nil || *e.OwnerID != userID {
		httperr.Forbidden(c, "forbidden", "You do not manage this entity.")
		return nil, false
	}
	return &e, true
}
