package types

import "github.com/google/uuid"

// Identity is a caller whose bearer token has been verified
type Identity struct {
	UserID uuid.UUID
	Token  string
}
