package dto

import (
	"github.com/tahoak/park-collective/internal/i18n"
	"github.com/tahoak/park-collective/internal/models"
)

func Category(c *models.Category, locale string) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        i18n.Resolve(c.NameTranslations, locale, c.Name),
		Description: i18n.Resolve(c.DescriptionTranslations, locale, ""),
	}
}

func Tag(t *models.Tag, locale string) TagDTO {
	return TagDTO{
		ID:       t.ID,
		Slug:     t.Slug,
		Name:     i18n.Resolve(t.NameTranslations, locale, t.Name),
		Category: t.Category,
	}
}

func Entity(e *models.Entity, locale string) EntityDTO {
	name := i18n.Resolve(e.NameTranslations, locale, e.Name)
	description := i18n.Resolve(e.DescriptionTranslations, locale, e.Description)

	out := EntityDTO{
		ID:             e.ID,
		Slug:           e.Slug,
		Name:           name,
		Description:    description,
		SeoTitle:       i18n.Resolve(e.SeoTitleTranslations, locale, name),
		SeoDescription: i18n.Resolve(e.SeoDescriptionTranslations, locale, description),
		EntityType:     e.EntityType,
		Status:         e.Status,
		Address:        e.Address,
		City:           e.City,
		State:          e.State,
		Zip:            e.Zip,
		Phone:          e.Phone,
		Email:          e.Email,
		Website:        e.Website,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		Images:         e.ImageSlots(),
		Tags:           make([]EntityTagDTO, 0, len(e.Tags)),
		Claimed:        e.OwnerID != nil,
		UpdatedAt:      e.UpdatedAt,
	}

	if e.Category != nil {
		c := Category(e.Category, locale)
		out.Category = &c
	}
	for i := range e.Tags {
		out.Tags = append(out.Tags, EntityTagDTO{
			TagDTO:   Tag(&e.Tags[i].Tag, locale),
			Verified: e.Tags[i].Verified,
		})
	}
	return out
}
