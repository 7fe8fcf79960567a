package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

func (p Principal) Valid() bool {
	return p.UserID != uuid.Nil
}
