package moderation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/audit"
	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/models"
)

type tagKey struct{ entity, tag uuid.UUID }

type memState struct {
	changes    map[uuid.UUID]models.PendingChange
	entities   map[uuid.UUID]models.Entity
	tags       map[uuid.UUID]models.Tag
	categories map[uuid.UUID]models.Category
	entityTags map[tagKey]models.EntityTag
}

func (s memState) clone() memState {
	out := memState{
		changes:    make(map[uuid.UUID]models.PendingChange, len(s.changes)),
		entities:   make(map[uuid.UUID]models.Entity, len(s.entities)),
		tags:       make(map[uuid.UUID]models.Tag, len(s.tags)),
		categories: make(map[uuid.UUID]models.Category, len(s.categories)),
		entityTags: make(map[tagKey]models.EntityTag, len(s.entityTags)),
	}
	for k, v := range s.changes {
		out.changes[k] = v
	}
	for k, v := range s.entities {
		out.entities[k] = v
	}
	for k, v := range s.tags {
		out.tags[k] = v
	}
	for k, v := range s.categories {
		out.categories[k] = v
	}
	for k, v := range s.entityTags {
		out.entityTags[k] = v
	}
	return out
}

// memRepo is an in-memory domain.Repository. Transaction snapshots state and
// restores it when fn fails, like a database rollback.
type memRepo struct {
	mu    sync.Mutex
	state memState
	clock time.Time

	// loseClaim simulates another reviewer winning the conditional update.
	loseClaim bool
}

var _ domain.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		state: memState{}.clone(),
		clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	r.mu.Lock()
	saved := r.state.clone()
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.state = saved
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepo) CreateChange(ctx context.Context, ch *models.PendingChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	r.clock = r.clock.Add(time.Minute)
	ch.CreatedAt = r.clock
	r.state.changes[ch.ID] = *ch
	return nil
}

func (r *memRepo) GetChange(ctx context.Context, id uuid.UUID) (*models.PendingChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.state.changes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ch, nil
}

func (r *memRepo) ListChanges(ctx context.Context, f domain.ListFilter) ([]models.PendingChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PendingChange
	for _, ch := range r.state.changes {
		if f.Status != "" && ch.Status != string(f.Status) {
			continue
		}
		if f.EntityID != nil && ch.EntityID != *f.EntityID {
			continue
		}
		if f.SubmittedBy != nil && (ch.SubmittedBy == nil || *ch.SubmittedBy != *f.SubmittedBy) {
			continue
		}
		e := r.state.entities[ch.EntityID]
		ch.Entity = models.Entity{ID: e.ID, Name: e.Name, Slug: e.Slug}
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) ClaimForReview(ctx context.Context, ch *models.PendingChange) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loseClaim {
		return false, nil
	}
	cur, ok := r.state.changes[ch.ID]
	if !ok || cur.Status != string(domain.StatusPending) {
		return false, nil
	}
	r.state.changes[ch.ID] = *ch
	return true, nil
}

func (r *memRepo) GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.state.entities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *memRepo) SaveEntityFields(ctx context.Context, e *models.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.state.entities[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.state.entities[e.ID] = *e
	return nil
}

func (r *memRepo) SaveEntityImages(ctx context.Context, entityID uuid.UUID, images models.ImageMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.state.entities[entityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Images = datatypes.NewJSONType(images)
	r.state.entities[entityID] = e
	return nil
}

func (r *memRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.state.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memRepo) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.state.tags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memRepo) GetEntityTag(ctx context.Context, entityID, tagID uuid.UUID) (*models.EntityTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	et, ok := r.state.entityTags[tagKey{entityID, tagID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &et, nil
}

func (r *memRepo) UpsertVerifiedEntityTag(ctx context.Context, entityID, tagID uuid.UUID, createdBy *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := tagKey{entityID, tagID}
	et, ok := r.state.entityTags[k]
	if !ok {
		et = models.EntityTag{EntityID: entityID, TagID: tagID, CreatedBy: createdBy}
	}
	et.Verified = true
	r.state.entityTags[k] = et
	return nil
}

func (r *memRepo) DeleteEntityTag(ctx context.Context, entityID, tagID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state.entityTags, tagKey{entityID, tagID})
	return nil
}

// -------- fixtures --------

func (r *memRepo) addEntity(e models.Entity) models.Entity {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.state.entities[e.ID] = e
	return e
}

func (r *memRepo) addTag(t models.Tag) models.Tag {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.state.tags[t.ID] = t
	return t
}

func (r *memRepo) addCategory(c models.Category) models.Category {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.state.categories[c.ID] = c
	return c
}

func (r *memRepo) tagRows(entityID uuid.UUID) []models.EntityTag {
	var out []models.EntityTag
	for k, v := range r.state.entityTags {
		if k.entity == entityID {
			out = append(out, v)
		}
	}
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}
