package moderation

import "github.com/tahoak/park-collective/internal/httperr"

// ===============================
// Change type
// ===============================

type ChangeType string

const (
	UpdateEntity ChangeType = "UPDATE_ENTITY"
	AddTag       ChangeType = "ADD_TAG"
	RemoveTag    ChangeType = "REMOVE_TAG"
	UpdateImage  ChangeType = "UPDATE_IMAGE"
)

func ParseChangeType(s string) (ChangeType, error) {
	switch ct := ChangeType(s); ct {
	case UpdateEntity, AddTag, RemoveTag, UpdateImage:
		return ct, nil
	}
	return "", httperr.ErrBusiness("invalid_change_type")
}

// ===============================
// Status
// ===============================

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatusFilter accepts a queue filter. Empty means PENDING; ALL
// disables filtering and is returned as "".
func ParseStatusFilter(s string) (Status, error) {
	switch s {
	case "":
		return StatusPending, nil
	case "ALL":
		return "", nil
	}
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_status")
}

// ===============================
// Review action
// ===============================

type Action string

const (
	Approve Action = "APPROVE"
	Reject  Action = "REJECT"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case Approve, Reject:
		return a, nil
	}
	return "", httperr.ErrBusiness("invalid_action")
}

// Outcome is the status a change ends in after the action.
func (a Action) Outcome() Status {
	if a == Approve {
		return StatusApproved
	}
	return StatusRejected
}

// CanReview is the single-transition guard: only PENDING changes are reviewable.
func CanReview(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("already_processed")
	}
	return nil
}
