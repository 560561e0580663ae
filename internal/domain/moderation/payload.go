package moderation

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/tahoak/park-collective/internal/domain/directory"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

// Payload is the typed newValue of a change; each change type has one shape.
type Payload interface {
	ChangeType() ChangeType
}

// EntityPatch overwrites the listed entity fields. Nil means untouched;
// translation blobs are replaced whole, never merged.
type EntityPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	EntityType  *string  `json:"entityType,omitempty"`

	CategoryID *uuid.UUID `json:"categoryId,omitempty"`

	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	State       *string  `json:"state,omitempty"`
	Zip         *string  `json:"zip,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	NameTranslations           json.RawMessage `json:"nameTranslations,omitempty"`
	DescriptionTranslations    json.RawMessage `json:"descriptionTranslations,omitempty"`
	SeoTitleTranslations       json.RawMessage `json:"seoTitleTranslations,omitempty"`
	SeoDescriptionTranslations json.RawMessage `json:"seoDescriptionTranslations,omitempty"`
}

func (EntityPatch) ChangeType() ChangeType { return UpdateEntity }

func (p EntityPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.EntityType == nil && p.CategoryID == nil &&
		p.Address == nil && p.City == nil && p.State == nil && p.Zip == nil &&
		p.Phone == nil && p.Email == nil && p.Website == nil &&
		p.Latitude == nil && p.Longitude == nil &&
		p.NameTranslations == nil && p.DescriptionTranslations == nil &&
		p.SeoTitleTranslations == nil && p.SeoDescriptionTranslations == nil
}

// Apply writes the patch onto e.
func (p EntityPatch) Apply(e *models.Entity) {
	setString(&e.Name, p.Name)
	setString(&e.Description, p.Description)
	setString(&e.EntityType, p.EntityType)
	if p.CategoryID != nil {
		id := *p.CategoryID
		e.CategoryID = &id
	}
	setString(&e.Address, p.Address)
	setString(&e.City, p.City)
	setString(&e.State, p.State)
	setString(&e.Zip, p.Zip)
	setString(&e.Phone, p.Phone)
	setString(&e.Email, p.Email)
	setString(&e.Website, p.Website)
	if p.Latitude != nil {
		e.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		e.Longitude = p.Longitude
	}
	setJSON(&e.NameTranslations, p.NameTranslations)
	setJSON(&e.DescriptionTranslations, p.DescriptionTranslations)
	setJSON(&e.SeoTitleTranslations, p.SeoTitleTranslations)
	setJSON(&e.SeoDescriptionTranslations, p.SeoDescriptionTranslations)
}

// Snapshot captures the entity's current values for the fields the patch touches.
func (p EntityPatch) Snapshot(e *models.Entity) EntityPatch {
	var out EntityPatch
	snap := func(dst **string, set *string, cur string) {
		if set != nil {
			v := cur
			*dst = &v
		}
	}
	snap(&out.Name, p.Name, e.Name)
	snap(&out.Description, p.Description, e.Description)
	snap(&out.EntityType, p.EntityType, e.EntityType)
	if p.CategoryID != nil {
		// nil in the snapshot means the entity had no category
		out.CategoryID = e.CategoryID
	}
	snap(&out.Address, p.Address, e.Address)
	snap(&out.City, p.City, e.City)
	snap(&out.State, p.State, e.State)
	snap(&out.Zip, p.Zip, e.Zip)
	snap(&out.Phone, p.Phone, e.Phone)
	snap(&out.Email, p.Email, e.Email)
	snap(&out.Website, p.Website, e.Website)
	if p.Latitude != nil {
		out.Latitude = e.Latitude
	}
	if p.Longitude != nil {
		out.Longitude = e.Longitude
	}
	if p.NameTranslations != nil {
		out.NameTranslations = rawOrNull(e.NameTranslations)
	}
	if p.DescriptionTranslations != nil {
		out.DescriptionTranslations = rawOrNull(e.DescriptionTranslations)
	}
	if p.SeoTitleTranslations != nil {
		out.SeoTitleTranslations = rawOrNull(e.SeoTitleTranslations)
	}
	if p.SeoDescriptionTranslations != nil {
		out.SeoDescriptionTranslations = rawOrNull(e.SeoDescriptionTranslations)
	}
	return out
}

// TagRef names the tag an ADD_TAG / REMOVE_TAG change targets.
type TagRef struct {
	TagID uuid.UUID `json:"tagId"`

	kind ChangeType
}

func (r TagRef) ChangeType() ChangeType { return r.kind }

// ImagePayload replaces the entity image map wholesale.
type ImagePayload models.ImageMap

func (ImagePayload) ChangeType() ChangeType { return UpdateImage }

// DecodePayload parses newValue strictly for its change type.
func DecodePayload(ct ChangeType, raw []byte) (Payload, error) {
	switch ct {
	case UpdateEntity:
		var p EntityPatch
		if err := strictDecode(raw, &p); err != nil || p.empty() {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		if p.Name != nil && *p.Name == "" {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		if p.EntityType != nil {
			if _, err := directory.ParseEntityType(*p.EntityType); err != nil {
				return nil, httperr.ErrBusiness("invalid_payload")
			}
		}
		if p.CategoryID != nil && *p.CategoryID == uuid.Nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		for _, blob := range []json.RawMessage{
			p.NameTranslations, p.DescriptionTranslations,
			p.SeoTitleTranslations, p.SeoDescriptionTranslations,
		} {
			if blob != nil && !isObject(blob) {
				return nil, httperr.ErrBusiness("invalid_payload")
			}
		}
		return p, nil

	case AddTag, RemoveTag:
		var r TagRef
		if err := strictDecode(raw, &r); err != nil || r.TagID == uuid.Nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		r.kind = ct
		return r, nil

	case UpdateImage:
		var m map[string]string
		if err := strictDecode(raw, &m); err != nil || m == nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		for slot := range m {
			if !directory.IsImageSlot(slot) {
				return nil, httperr.ErrBusiness("invalid_image_slot")
			}
		}
		return ImagePayload(m), nil
	}
	return nil, httperr.ErrBusiness("invalid_change_type")
}

// EncodePayload is the inverse of DecodePayload.
func EncodePayload(p Payload) (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func strictDecode(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	var m map[string]any
	return json.Unmarshal(raw, &m) == nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setJSON(dst *datatypes.JSON, v json.RawMessage) {
	if v != nil {
		*dst = datatypes.JSON(v)
	}
}

func rawOrNull(b datatypes.JSON) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
