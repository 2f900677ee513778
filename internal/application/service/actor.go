package service

import "github.com/google/uuid"

// Actor is the authenticated operator a call is made for. SessionKey
// identifies the terminal session whose cart the call works on.
type Actor struct {
	OperatorID uuid.UUID
	BranchID   uuid.UUID
	SessionKey string
	Admin      bool
}
