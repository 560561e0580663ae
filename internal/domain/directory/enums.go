package directory

import "github.com/tahoak/park-collective/internal/httperr"

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleEntityOwner Role = "ENTITY_OWNER"
	RoleUser        Role = "USER"
)

// ===============================
// Entity
// ===============================

type EntityStatus string

const (
	EntityPending  EntityStatus = "PENDING"
	EntityActive   EntityStatus = "ACTIVE"
	EntityInactive EntityStatus = "INACTIVE"
)

func ParseEntityStatus(s string) (EntityStatus, error) {
	switch st := EntityStatus(s); st {
	case EntityPending, EntityActive, EntityInactive:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

type EntityType string

const (
	TypeBusiness    EntityType = "BUSINESS"
	TypeCivicOrg    EntityType = "CIVIC_ORG"
	TypePublicSpace EntityType = "PUBLIC_SPACE"
	TypeNonProfit   EntityType = "NON_PROFIT"
	TypeCultural    EntityType = "CULTURAL"
)

func ParseEntityType(s string) (EntityType, error) {
	switch t := EntityType(s); t {
	case TypeBusiness, TypeCivicOrg, TypePublicSpace, TypeNonProfit, TypeCultural:
		return t, nil
	}
	return "", httperr.ErrBusiness("invalid_entity_type")
}

// ===============================
// Tags
// ===============================

type TagCategory string

const (
	TagIdentity     TagCategory = "IDENTITY"
	TagFriendliness TagCategory = "FRIENDLINESS"
	TagAmenity      TagCategory = "AMENITY"
)

func ParseTagCategory(s string) (TagCategory, error) {
	switch c := TagCategory(s); c {
	case TagIdentity, TagFriendliness, TagAmenity:
		return c, nil
	}
	return "", httperr.ErrBusiness("invalid_tag_category")
}

// NeedsVerification reports whether owner-submitted assignments of this
// category stay unconfirmed until an admin verifies them.
func (c TagCategory) NeedsVerification() bool {
	return c == TagFriendliness
}

// ===============================
// Images
// ===============================

var imageSlots = map[string]struct{}{
	"logo": {}, "cover": {},
	"gallery1": {}, "gallery2": {}, "gallery3": {},
	"gallery4": {}, "gallery5": {}, "gallery6": {},
}

func IsImageSlot(slot string) bool {
	_, ok := imageSlots[slot]
	return ok
}
