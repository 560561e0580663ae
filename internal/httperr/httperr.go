package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromError writes a business error with its mapped status. Anything else
// becomes a 500 with the given fallback code, so storage errors never leak.
func FromError(c *gin.Context, err error, fallbackCode string) {
	if code, ok := AsBusiness(err); ok {
		Write(c, StatusFor(code), code, messages[code])
		return
	}
	Internal(c, fallbackCode, "Something went wrong.")
}

var messages = map[string]string{
	"already_processed":    "This change has already been reviewed.",
	"invalid_action":       "Action must be APPROVE or REJECT.",
	"invalid_payload":      "The submitted value does not match the change type.",
	"invalid_change_type":  "Unknown change type.",
	"invalid_status":       "Unknown status.",
	"entity_not_found":     "Entity not found.",
	"tag_not_found":        "Tag not found.",
	"category_not_found":   "Category not found.",
	"change_not_found":     "Change not found.",
	"claim_not_found":      "Claim not found.",
	"submitter_required":   "Anonymous submissions need a contact email.",
	"forbidden":            "You are not allowed to do that.",
	"tag_already_assigned": "The tag is already assigned.",
	"tag_change_pending":   "This tag is already waiting for review.",
	"slug_already_exists":  "Slug already in use.",
	"already_subscribed":   "This email is already subscribed.",
	"claim_already_open":   "You already have an open claim for this entity.",
	"already_owner":        "You already own this entity.",
	"invalid_token":        "The link is invalid or has expired.",
	"email_failed":         "We could not send the email. Please try again later.",
	"upload_failed":        "The image could not be stored.",
	"invalid_image":        "Unsupported or corrupt image.",
	"image_too_large":      "Image exceeds the size limit.",
	"invalid_image_slot":   "Unknown image slot.",
	"invalid_email":        "Please provide a valid email address.",
	"invalid_entity_id":    "Invalid entity identifier.",
	"invalid_entity_type":  "Unknown entity type.",
	"invalid_tag_category": "Unknown tag category.",
}
