package models

// Identity is the authenticated caller as resolved by the transport layer.
// A zero UserID means the caller could not be resolved.
type Identity struct {
	UserID int64
}

func (i Identity) Resolved() bool {
	return i.UserID > 0
}
