package models

import "github.com/google/uuid"

// assignID gives a fresh UUID to records created without one.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
