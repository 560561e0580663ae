package moderation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

type fixture struct {
	repo   *memRepo
	audit  *recorder
	submit *SubmitChange
	review *ReviewChange
	list   *ListChanges
	admin  uuid.UUID
}

func newFixture() *fixture {
	repo := newMemRepo()
	rec := &recorder{}
	review := NewReviewChange(repo, rec)
	review.now = func() time.Time { return time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		repo:   repo,
		audit:  rec,
		submit: NewSubmitChange(repo, rec),
		review: review,
		list:   NewListChanges(repo),
		admin:  uuid.New(),
	}
}

func (f *fixture) mustSubmit(t *testing.T, entityID uuid.UUID, ct domain.ChangeType, newValue string) *models.PendingChange {
	t.Helper()
	owner := uuid.New()
	ch, err := f.submit.Execute(context.Background(), SubmitChangeInput{
		EntityID:    entityID,
		ChangeType:  string(ct),
		NewValue:    json.RawMessage(newValue),
		SubmittedBy: &owner,
	})
	if err != nil {
		t.Fatalf("submit %s: %v", ct, err)
	}
	return ch
}

func (f *fixture) approve(id uuid.UUID) (*models.PendingChange, error) {
	return f.review.Execute(context.Background(), ReviewChangeInput{
		ChangeID: id, Action: "APPROVE", ReviewerID: f.admin,
	})
}

func tagJSON(id uuid.UUID) string {
	b, _ := json.Marshal(map[string]string{"tagId": id.String()})
	return string(b)
}

// ======================================================
// Submission
// ======================================================

func TestSubmitRequiresSubmitter(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})

	_, err := f.submit.Execute(context.Background(), SubmitChangeInput{
		EntityID:   e.ID,
		ChangeType: "UPDATE_ENTITY",
		NewValue:   json.RawMessage(`{"phone":"555-0100"}`),
	})
	if !httperr.IsBusiness(err, "submitter_required") {
		t.Fatalf("expected submitter_required, got %v", err)
	}

	ch, err := f.submit.Execute(context.Background(), SubmitChangeInput{
		EntityID:       e.ID,
		ChangeType:     "UPDATE_ENTITY",
		NewValue:       json.RawMessage(`{"phone":"555-0100"}`),
		SubmitterEmail: "  Neighbor@Example.com ",
	})
	if err != nil {
		t.Fatalf("anonymous submit: %v", err)
	}
	if ch.SubmitterEmail != "neighbor@example.com" || ch.Status != "PENDING" || ch.SubmittedBy != nil {
		t.Fatalf("unexpected change: %+v", ch)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	user := uuid.New()

	cases := []struct {
		name     string
		entityID uuid.UUID
		ct       string
		value    string
		code     string
	}{
		{"unknown type", e.ID, "DELETE_ENTITY", `{}`, "invalid_change_type"},
		{"bad payload", e.ID, "UPDATE_ENTITY", `{"colour":"red"}`, "invalid_payload"},
		{"missing entity", uuid.New(), "UPDATE_ENTITY", `{"phone":"1"}`, "entity_not_found"},
		{"missing tag", e.ID, "ADD_TAG", tagJSON(uuid.New()), "tag_not_found"},
		{"bad slot", e.ID, "UPDATE_IMAGE", `{"banner":"https://x/y.webp"}`, "invalid_image_slot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.submit.Execute(context.Background(), SubmitChangeInput{
				EntityID: tc.entityID, ChangeType: tc.ct, NewValue: json.RawMessage(tc.value), SubmittedBy: &user,
			})
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
	if len(f.repo.state.changes) != 0 {
		t.Fatalf("rejected submissions must not be stored, got %d", len(f.repo.state.changes))
	}
}

func TestSubmitSnapshotsOldValue(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware", Description: "Old text"})
	tag := f.repo.addTag(models.Tag{Name: "Wheelchair accessible", Category: "AMENITY", Slug: "wheelchair-accessible"})

	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"description":"New text"}`)
	if got := string(ch.OldValue); got != `{"description":"Old text"}` {
		t.Fatalf("entity snapshot = %s", got)
	}

	ch = f.mustSubmit(t, e.ID, domain.AddTag, tagJSON(tag.ID))
	var snap tagSnapshot
	if err := json.Unmarshal(ch.OldValue, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.TagID != tag.ID || snap.Assigned {
		t.Fatalf("tag snapshot = %+v", snap)
	}
}

// ======================================================
// Review
// ======================================================

func TestApproveUpdateEntity(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware", Description: "Old text"})
	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"description":"New text"}`)

	got, err := f.approve(ch.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != "APPROVED" || got.ReviewedBy == nil || *got.ReviewedBy != f.admin || got.ReviewedAt == nil {
		t.Fatalf("unexpected reviewed change: %+v", got)
	}

	stored := f.repo.state.entities[e.ID]
	if stored.Description != "New text" || stored.Name != "Ace Hardware" {
		t.Fatalf("entity not patched: %+v", stored)
	}

	acts := f.audit.actions()
	if acts[len(acts)-1] != "change_approved" {
		t.Fatalf("expected change_approved audit, got %v", acts)
	}
}

func TestApproveCategoryChange(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	cat := f.repo.addCategory(models.Category{Name: "Shopping", Slug: "shopping"})

	_, err := f.submit.Execute(context.Background(), SubmitChangeInput{
		EntityID:       e.ID,
		ChangeType:     "UPDATE_ENTITY",
		NewValue:       json.RawMessage(`{"categoryId":"` + uuid.NewString() + `"}`),
		SubmitterEmail: "neighbor@example.com",
	})
	if !httperr.IsBusiness(err, "category_not_found") {
		t.Fatalf("expected category_not_found, got %v", err)
	}

	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"categoryId":"`+cat.ID.String()+`"}`)
	if got := string(ch.OldValue); got != `{}` {
		t.Fatalf("uncategorised snapshot = %s", got)
	}
	if _, err := f.approve(ch.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := f.repo.state.entities[e.ID].CategoryID; got == nil || *got != cat.ID {
		t.Fatalf("category not applied: %v", got)
	}
}

func TestRejectLeavesEntityUntouched(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware", Description: "Old text"})
	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"description":"New text"}`)

	got, err := f.review.Execute(context.Background(), ReviewChangeInput{
		ChangeID: ch.ID, Action: "REJECT", Notes: "not accurate", ReviewerID: f.admin,
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != "REJECTED" || got.Notes != "not accurate" {
		t.Fatalf("unexpected change: %+v", got)
	}
	if f.repo.state.entities[e.ID].Description != "Old text" {
		t.Fatal("reject must not apply the change")
	}
}

func TestReviewTwiceIsConflict(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"phone":"555-0100"}`)

	if _, err := f.approve(ch.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	before := f.repo.state.changes[ch.ID]

	_, err := f.review.Execute(context.Background(), ReviewChangeInput{
		ChangeID: ch.ID, Action: "REJECT", Notes: "late", ReviewerID: uuid.New(),
	})
	if !httperr.IsBusiness(err, "already_processed") {
		t.Fatalf("expected already_processed, got %v", err)
	}

	after := f.repo.state.changes[ch.ID]
	if after.Status != before.Status || *after.ReviewedBy != *before.ReviewedBy ||
		!after.ReviewedAt.Equal(*before.ReviewedAt) || after.Notes != before.Notes {
		t.Fatalf("second review mutated the record: before %+v after %+v", before, after)
	}
}

func TestLostClaimAppliesNothing(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware", Description: "Old text"})
	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"description":"New text"}`)

	f.repo.loseClaim = true
	if _, err := f.approve(ch.ID); !httperr.IsBusiness(err, "already_processed") {
		t.Fatalf("expected already_processed, got %v", err)
	}
	if f.repo.state.entities[e.ID].Description != "Old text" {
		t.Fatal("side effects ran without a successful claim")
	}
}

func TestReviewErrors(t *testing.T) {
	f := newFixture()
	if _, err := f.review.Execute(context.Background(), ReviewChangeInput{ChangeID: uuid.New(), Action: "MAYBE"}); !httperr.IsBusiness(err, "invalid_action") {
		t.Fatalf("expected invalid_action, got %v", err)
	}
	if _, err := f.approve(uuid.New()); !httperr.IsBusiness(err, "change_not_found") {
		t.Fatalf("expected change_not_found, got %v", err)
	}
}

func TestApproveAddTagTwiceKeepsOneVerifiedRow(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "LGBTQ+ friendly", Category: "FRIENDLINESS", Slug: "lgbtq-friendly"})

	first := f.mustSubmit(t, e.ID, domain.AddTag, tagJSON(tag.ID))
	second := f.mustSubmit(t, e.ID, domain.AddTag, tagJSON(tag.ID))
	for _, ch := range []*models.PendingChange{first, second} {
		if _, err := f.approve(ch.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	rows := f.repo.tagRows(e.ID)
	if len(rows) != 1 || !rows[0].Verified {
		t.Fatalf("expected one verified row, got %+v", rows)
	}
}

func TestApproveAddTagFlipsUnverifiedRow(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Family friendly", Category: "FRIENDLINESS", Slug: "family-friendly"})
	f.repo.state.entityTags[tagKey{e.ID, tag.ID}] = models.EntityTag{EntityID: e.ID, TagID: tag.ID}

	ch := f.mustSubmit(t, e.ID, domain.AddTag, tagJSON(tag.ID))
	if _, err := f.approve(ch.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !f.repo.state.entityTags[tagKey{e.ID, tag.ID}].Verified {
		t.Fatal("existing row was not verified")
	}
}

func TestApproveAddTagMissingTagRollsBack(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Dog friendly", Category: "FRIENDLINESS", Slug: "dog-friendly"})
	ch := f.mustSubmit(t, e.ID, domain.AddTag, tagJSON(tag.ID))

	delete(f.repo.state.tags, tag.ID)

	if _, err := f.approve(ch.ID); !httperr.IsBusiness(err, "tag_not_found") {
		t.Fatalf("expected tag_not_found, got %v", err)
	}
	stored := f.repo.state.changes[ch.ID]
	if stored.Status != "PENDING" || stored.ReviewedBy != nil || stored.ReviewedAt != nil {
		t.Fatalf("failed approval left review metadata: %+v", stored)
	}
	if len(f.repo.tagRows(e.ID)) != 0 {
		t.Fatal("no join row may be written")
	}
}

func TestApproveMissingEntity(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	ch := f.mustSubmit(t, e.ID, domain.UpdateEntity, `{"phone":"555-0100"}`)

	delete(f.repo.state.entities, e.ID)

	if _, err := f.approve(ch.ID); !httperr.IsBusiness(err, "entity_not_found") {
		t.Fatalf("expected entity_not_found, got %v", err)
	}
	if f.repo.state.changes[ch.ID].Status != "PENDING" {
		t.Fatal("change must stay pending")
	}
}

func TestApproveRemoveTagNeverAssigned(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Outdoor seating", Category: "AMENITY", Slug: "outdoor-seating"})

	ch := f.mustSubmit(t, e.ID, domain.RemoveTag, tagJSON(tag.ID))
	got, err := f.approve(ch.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != "APPROVED" {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestApproveRemoveTagDeletesRow(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Outdoor seating", Category: "AMENITY", Slug: "outdoor-seating"})
	f.repo.state.entityTags[tagKey{e.ID, tag.ID}] = models.EntityTag{EntityID: e.ID, TagID: tag.ID, Verified: true}

	ch := f.mustSubmit(t, e.ID, domain.RemoveTag, tagJSON(tag.ID))
	if _, err := f.approve(ch.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(f.repo.tagRows(e.ID)) != 0 {
		t.Fatal("join row still present")
	}
}

func TestApproveUpdateImageReplacesWholesale(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{
		Name:   "Ace Hardware",
		Images: datatypes.NewJSONType(models.ImageMap{"logo": "https://cdn/logo.webp", "cover": "https://cdn/cover.webp"}),
	})

	ch := f.mustSubmit(t, e.ID, domain.UpdateImage, `{"gallery1":"https://cdn/g1.webp"}`)
	if _, err := f.approve(ch.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	images := f.repo.state.entities[e.ID].Images.Data()
	if len(images) != 1 || images["gallery1"] != "https://cdn/g1.webp" {
		t.Fatalf("images = %v", images)
	}
}

// ======================================================
// Queue
// ======================================================

func TestListChanges(t *testing.T) {
	f := newFixture()
	a := f.repo.addEntity(models.Entity{Name: "Ace Hardware", Slug: "ace-hardware"})
	b := f.repo.addEntity(models.Entity{Name: "Bike Kitchen", Slug: "bike-kitchen"})

	c1 := f.mustSubmit(t, a.ID, domain.UpdateEntity, `{"phone":"1"}`)
	c2 := f.mustSubmit(t, b.ID, domain.UpdateEntity, `{"phone":"2"}`)
	c3 := f.mustSubmit(t, a.ID, domain.UpdateEntity, `{"phone":"3"}`)
	if _, err := f.approve(c3.ID); err != nil {
		t.Fatal(err)
	}

	pending, err := f.list.Execute(context.Background(), ListChangesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != c1.ID || pending[1].ID != c2.ID {
		t.Fatalf("pending queue out of order: %+v", pending)
	}
	if pending[0].Entity.Slug != "ace-hardware" || pending[0].Entity.Name != "Ace Hardware" {
		t.Fatalf("entity ref missing: %+v", pending[0].Entity)
	}

	all, err := f.list.Execute(context.Background(), ListChangesInput{Status: "ALL", EntityID: a.ID.String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != c1.ID || all[1].ID != c3.ID {
		t.Fatalf("entity filter: %+v", all)
	}

	if _, err := f.list.Execute(context.Background(), ListChangesInput{EntityID: "nope"}); !httperr.IsBusiness(err, "invalid_entity_id") {
		t.Fatalf("expected invalid_entity_id, got %v", err)
	}
	if _, err := f.list.Execute(context.Background(), ListChangesInput{Status: "DONE"}); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status, got %v", err)
	}
}

// ======================================================
// Owner tags
// ======================================================

func TestOwnerTagAmenityIsImmediate(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Parking", Category: "AMENITY", Slug: "parking"})
	uc := NewAssignOwnerTag(f.repo, f.submit, f.audit)

	res, err := uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Change != nil || !res.EntityTag.Verified {
		t.Fatalf("amenity tag should be live: %+v", res)
	}
	if len(f.repo.state.changes) != 0 {
		t.Fatal("no moderation needed for amenities")
	}

	_, err = uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: uuid.New()})
	if !httperr.IsBusiness(err, "tag_already_assigned") {
		t.Fatalf("expected tag_already_assigned, got %v", err)
	}
}

func TestOwnerTagFriendlinessNeedsReview(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "LGBTQ+ friendly", Category: "FRIENDLINESS", Slug: "lgbtq-friendly"})
	uc := NewAssignOwnerTag(f.repo, f.submit, f.audit)
	owner := uuid.New()

	res, err := uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if res.Change == nil || res.EntityTag != nil {
		t.Fatalf("friendliness tag should wait for review: %+v", res)
	}
	if len(f.repo.tagRows(e.ID)) != 0 {
		t.Fatal("no join row may exist before approval")
	}

	_, err = uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: owner})
	if !httperr.IsBusiness(err, "tag_change_pending") {
		t.Fatalf("expected tag_change_pending, got %v", err)
	}

	if _, err := f.approve(res.Change.ID); err != nil {
		t.Fatal(err)
	}
	rows := f.repo.tagRows(e.ID)
	if len(rows) != 1 || !rows[0].Verified {
		t.Fatalf("approval should create a verified row: %+v", rows)
	}
}

func TestOwnerTagRejectedCanBeRequestedAgain(t *testing.T) {
	f := newFixture()
	e := f.repo.addEntity(models.Entity{Name: "Ace Hardware"})
	tag := f.repo.addTag(models.Tag{Name: "Family friendly", Category: "FRIENDLINESS", Slug: "family-friendly"})
	uc := NewAssignOwnerTag(f.repo, f.submit, f.audit)
	owner := uuid.New()

	first, err := uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: owner})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.review.Execute(context.Background(), ReviewChangeInput{
		ChangeID: first.Change.ID, Action: "REJECT", ReviewerID: f.admin,
	}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rows := f.repo.tagRows(e.ID); len(rows) != 0 {
		t.Fatalf("rejection left join rows behind: %+v", rows)
	}

	again, err := uc.Execute(context.Background(), OwnerTagInput{EntityID: e.ID, TagID: tag.ID, OwnerID: owner})
	if err != nil {
		t.Fatalf("request after rejection: %v", err)
	}
	if again.Change == nil || again.Change.ID == first.Change.ID {
		t.Fatalf("expected a fresh pending change: %+v", again)
	}
}
